package udpsend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	termutil "github.com/andrew-d/go-termutil"
)

// Runner executes one invocation: parse, resolve, open socket, encode, send once.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	// IsTerminal reports whether Stdin is an interactive terminal instead of a pipe
	IsTerminal func() bool

	Resolver  *Resolver
	Transport Transport
	Encoder   Encoder
}

// NewRunner returns a Runner on the process' standard streams and the OS network stack.
func NewRunner() *Runner {
	return &Runner{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Stdin:      os.Stdin,
		IsTerminal: func() bool { return termutil.Isatty(os.Stdin.Fd()) },
		Resolver:   &Resolver{},
		Transport:  NetTransport{},
	}
}

// Run executes args, which start with the program name, and returns the process exit code.
func (r *Runner) Run(args []string) int {
	program := "udpsend"
	if len(args) > 0 {
		program = filepath.Base(args[0])
	}
	// NOTE: too few arguments is answered with usage and success, unlike missing flags below
	if len(args) < MinArgs {
		PrintUsage(r.Stdout, program)
		return 0
	}

	parsed, err := ParseArgs(args[1:], r.Stdout)
	if err != nil {
		if errors.Is(err, ErrMissingRequired) {
			PrintUsage(r.Stdout, program)
			return 1
		}
		fmt.Fprintln(r.Stdout, "parse arguments failed")
		return 1
	}
	debug := io.Discard
	if parsed.Debug && r.Stderr != nil {
		debug = r.Stderr
	}

	text := DefaultData
	if parsed.HasData {
		text = parsed.Data
	}
	if parsed.DataFromStdin() {
		if text, err = r.readStdin(); err != nil {
			var argErr *ArgError
			switch {
			case errors.Is(err, ErrNoStdin):
				fmt.Fprintln(r.Stdout, "ERROR:", err)
			case errors.As(err, &argErr):
				fmt.Fprintln(r.Stdout, err)
				fmt.Fprintln(r.Stdout, "parse arguments failed")
			default:
				fmt.Fprintln(r.Stdout, "ERROR: reading STDIN:", err)
			}
			return 1
		}
		fmt.Fprintln(debug, "read", len(text), "bytes of payload from STDIN")
	}

	n, err := r.send(parsed, text, debug)
	if err != nil {
		fmt.Fprintln(debug, "ERROR:", err)
		r.report(err)
		return 1
	}
	fmt.Fprintf(r.Stdout, "Bytes sent: %d\n", n)
	return 0
}

// send does the network part inside one network scope, released on every return
func (r *Runner) send(args *Args, text string, debug io.Writer) (int, error) {
	res := Open(debug)
	defer res.Release()

	resolver := r.Resolver
	if resolver == nil {
		resolver = &Resolver{}
	}
	transport := r.Transport
	if transport == nil {
		transport = NetTransport{}
	}
	ctx := context.Background()

	target, err := resolver.Resolve(ctx, args.Addr, args.Port)
	if err != nil {
		return 0, err
	}
	res.Target = target
	fmt.Fprintln(debug, "resolved destination", target)

	var local *net.UDPAddr
	if args.HasListen {
		listen, err := resolver.ResolvePassive(ctx, args.Listen)
		if err != nil {
			return 0, err
		}
		res.Listen = listen
		local = listen.First()
		fmt.Fprintln(debug, "resolved local endpoint", listen)
	}

	// socket type follows the destination, so it always fits the address
	sock, err := transport.Open(target.Network, local)
	if err != nil {
		return 0, err
	}
	res.Socket = sock
	fmt.Fprintln(debug, "socket open on", sock.LocalAddr())

	payload, err := r.Encoder.Encode(text)
	if err != nil {
		return 0, err
	}
	fmt.Fprintln(debug, "sending", len(payload), "bytes to", target.First())
	return sock.SendTo(payload, target.First())
}

// report prints the diagnostic for a failed send
func (r *Runner) report(err error) {
	var resErr *ResolutionError
	var sockErr *SocketError
	var encErr *EncodingError
	switch {
	case errors.As(err, &resErr):
		fmt.Fprintf(r.Stdout, "getaddrinfo failed: %d\n", resErr.Status)
	case errors.As(err, &sockErr):
		switch sockErr.Kind {
		case BindError:
			fmt.Fprintf(r.Stdout, "bind failed: %d\n", sockErr.Code)
		case SendError:
			fmt.Fprintf(r.Stdout, "send failed: %d\n", sockErr.Code)
		default:
			fmt.Fprintf(r.Stdout, "Error at socket(): %d\n", sockErr.Code)
		}
	case errors.As(err, &encErr):
		fmt.Fprintf(r.Stdout, "UTF-8 conversion error code: %d\n", encErr.Code)
		if encErr.Code == CodeNoUnicodeTranslation || encErr.Code == CodeInsufficientBuffer {
			fmt.Fprintln(r.Stdout, encErr.Reason())
		}
	default:
		fmt.Fprintln(r.Stdout, "ERROR:", err)
	}
}

// readStdin reads the payload from a pipe, without the trailing line break
func (r *Runner) readStdin() (string, error) {
	if r.Stdin == nil || (r.IsTerminal != nil && r.IsTerminal()) {
		return "", ErrNoStdin
	}
	// room for the longest allowed payload in UTF-8 plus CR LF
	limit := int64(MaxInputCharacters*utf8.UTFMax + 2)
	b, err := io.ReadAll(io.LimitReader(r.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	text := strings.TrimRight(string(b), "\r\n")
	if int64(len(b)) > limit || utf8.RuneCountInString(text) > MaxInputCharacters {
		return "", &ArgError{Kind: ArgumentTooLong, Flag: "-data", Max: MaxInputCharacters}
	}
	if strings.IndexByte(text, 0) >= 0 {
		return "", &ArgError{Kind: CopyError, Flag: "-data", Max: MaxInputCharacters}
	}
	return text, nil
}
