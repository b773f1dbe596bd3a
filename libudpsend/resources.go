package udpsend

import "io"

// Resources is the network scope of one invocation: everything acquired between
// start of networking and program end. Unset fields are skipped on release.
type Resources struct {
	Target *Endpoint
	Listen *Endpoint
	Socket Socket

	debug io.Writer
	open  bool
}

// Open starts the network scope. Pair it with a deferred Release.
func Open(debug io.Writer) *Resources {
	if debug == nil {
		debug = io.Discard
	}
	return &Resources{debug: debug, open: true}
}

// Release frees the endpoints and closes the socket. It may be called any number of
// times and on a partially populated or nil scope; only the first call closes anything.
func (r *Resources) Release() error {
	if r == nil {
		return nil
	}
	var err error
	if r.Socket != nil {
		if err = r.Socket.Close(); err != nil && r.debug != nil {
			io.WriteString(r.debug, "closing socket: "+err.Error()+"\n")
		}
		r.Socket = nil
	}
	r.Target = nil
	r.Listen = nil
	if r.open && r.debug != nil {
		io.WriteString(r.debug, "network scope released\n")
	}
	r.open = false
	return err
}

// Released reports whether nothing is held anymore.
func (r *Resources) Released() bool {
	return r == nil || (!r.open && r.Socket == nil && r.Target == nil && r.Listen == nil)
}
