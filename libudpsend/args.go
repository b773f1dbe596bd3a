package udpsend

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// limits of the bounded argument fields, in characters
const (
	MaxAddrLength      = 255
	MaxPortLength      = 5
	MaxInputCharacters = 100
)

// MinArgs is the minimum length of os.Args, program name included, below which only usage is printed.
const MinArgs = 5

// Args is the parsed intent of one invocation.
type Args struct {
	Addr   string
	Port   string
	Data   string
	Listen string

	HasAddr   bool
	HasPort   bool
	HasData   bool
	HasListen bool

	// Debug is set by the -debug switch
	Debug bool
	// Stdin is set by the -stdin switch; the payload is then read from STDIN instead of -data
	Stdin bool
}

// DataFromStdin reports whether the payload is to be read from STDIN.
func (a *Args) DataFromStdin() bool {
	return a.Stdin
}

// argSpec binds one recognized key to its bounded field
type argSpec struct {
	key       string
	maxLength int
	value     *string
	present   *bool
}

// value-less switches, recognized anywhere except in value position of a key
var switches = map[string]func(a *Args){
	"-debug": func(a *Args) { a.Debug = true },
	"-stdin": func(a *Args) { a.Stdin = true },
}

func (a *Args) specs() []argSpec {
	return []argSpec{
		{"-addr", MaxAddrLength, &a.Addr, &a.HasAddr},
		{"-port", MaxPortLength, &a.Port, &a.HasPort},
		{"-data", MaxInputCharacters, &a.Data, &a.HasData},
		{"-listen", MaxPortLength, &a.Listen, &a.HasListen},
	}
}

// ParseArgs parses the argument list without the program name.
//
// Every adjacent pair (args[i], args[i+1]) is tested as key and value, so a value is also
// looked at as a key. Unknown keys are ignored, a repeated key overwrites the earlier value.
// A switch directly after a recognized key is that key's value, not a switch.
// Flag specific failures are reported on diag before the error is returned.
func ParseArgs(args []string, diag io.Writer) (*Args, error) {
	parsed := &Args{}
	specs := parsed.specs()
	for i := 0; i < len(args); i++ {
		if set, ok := switches[args[i]]; ok && (i == 0 || !isKey(specs, args[i-1])) {
			set(parsed)
		}
		if i+1 >= len(args) {
			continue
		}
		for _, spec := range specs {
			if err := spec.parse(args[i], args[i+1]); err != nil {
				fmt.Fprintln(diag, err.Error())
				return nil, err
			}
		}
	}
	if !parsed.HasAddr || !parsed.HasPort {
		return nil, ErrMissingRequired
	}
	return parsed, nil
}

func isKey(specs []argSpec, arg string) bool {
	for _, spec := range specs {
		if spec.key == arg {
			return true
		}
	}
	return false
}

func (s argSpec) parse(key, value string) error {
	if key != s.key {
		return nil
	}
	if utf8.RuneCountInString(value) > s.maxLength {
		return &ArgError{Kind: ArgumentTooLong, Flag: s.key, Max: s.maxLength}
	}
	// NOTE: a NUL would terminate the field early, so the value could not be stored as given
	if strings.IndexByte(value, 0) >= 0 {
		return &ArgError{Kind: CopyError, Flag: s.key, Max: s.maxLength}
	}
	*s.value = value
	*s.present = true
	return nil
}

// PrintUsage writes the usage text.
func PrintUsage(w io.Writer, program string) {
	fmt.Fprintln(w, "Usage options:")
	fmt.Fprintln(w, "-addr ADDR - Address to send a packet")
	fmt.Fprintln(w, "-port PORT - Port")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Example: %s -addr 192.168.0.2 -port 8080\n", program)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Optional options:")
	fmt.Fprintf(w, "-data DATA - String data to send. Max %d characters.\n", MaxInputCharacters)
	fmt.Fprintln(w, "-listen PORT - Source port")
	fmt.Fprintln(w, "-stdin - read DATA from STDIN instead, same limit")
	fmt.Fprintln(w, "-debug - print debug messages to stderr")
}
