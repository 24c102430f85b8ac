//go:build !unix

package terminal

type stubBackend struct{}

func newTTYBackend(string) ttyBackend { return stubBackend{} }

func (stubBackend) Init() error                              { return errNoBackend }
func (stubBackend) Fini()                                    {}
func (stubBackend) Size() (int, int)                         { return 0, 0 }
func (stubBackend) Write([]byte) error                       { return errNoBackend }
func (stubBackend) Read(<-chan struct{}) ([]byte, error)     { return nil, errNoBackend }
func (stubBackend) SetResizeHandler(func(width, height int)) {}
