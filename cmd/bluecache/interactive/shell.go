// Package interactive provides the bluecache shell.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/bluecache/bluecache-go/cmd/bluecache/commands"
	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/objcache"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// Shell keeps one object cache open and runs commands against it.
type Shell struct {
	env   *commands.Env
	cache *objcache.Cache
	rl    *readline.Instance
}

// New enumerates the service and creates the readline prompt.
func New(env *commands.Env) (*Shell, error) {
	s, err := newShell(env)
	if err != nil {
		return nil, err
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "bluecache> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		s.cache.Close()
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	s.rl = rl
	s.env.Out = rl.Stdout()
	return s, nil
}

func newShell(env *commands.Env) (*Shell, error) {
	c, err := objcache.New(
		bus.NewProxy(env.Conn, env.Config.Service, value.ObjectPath(env.Config.Manager), env.Config.Timeouts.Call),
		objcache.WithLogger(env.Logger),
	)
	if err != nil {
		return nil, err
	}
	return &Shell{env: env, cache: c}, nil
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("ls"),
		readline.PcItem("show"),
		readline.PcItem("find"),
		readline.PcItem("get"),
		readline.PcItem("watch"),
		readline.PcItem("dump",
			readline.PcItem("yaml"),
			readline.PcItem("json"),
		),
		readline.PcItem("devices"),
		readline.PcItem("battery"),
		readline.PcItem("quit"),
	)
}

// Stdout returns a writer that coordinates with the prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run reads commands until quit, EOF or ctx ends.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()
	defer s.cache.Close()

	s.printHelp()

	for ctx.Err() == nil {
		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.env.Out, "Exiting...")
			cancel()
			return
		}
		if !s.Execute(line) {
			fmt.Fprintln(s.env.Out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line and reports whether the shell should keep
// going.
func (s *Shell) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "ls", "l":
		err = s.cmdList(args)
	case "show", "s":
		err = s.cmdShow(args)
	case "find", "f":
		err = s.cmdFind(args)
	case "get", "g":
		err = s.cmdGet(args)
	case "watch", "w":
		err = s.cmdWatch(args)
	case "dump":
		err = s.cmdDump(args)
	case "devices", "d":
		err = commands.RunDevices(s.env, commands.DevicesOptions{Timeout: 0})
	case "battery":
		if len(args) != 1 {
			err = errors.New("usage: battery <address>")
			break
		}
		err = commands.RunBattery(s.env, args[0])
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(s.env.Out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	if err != nil {
		fmt.Fprintf(s.env.Out, "Error: %v\n", err)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.env.Out, `
Commands:
  ls [iface]                  - List mirrored objects
  show <path>                 - Show every property of an object
  find <iface> [prop [value]] - Wait for a matching object
  get <path> <iface> [prop]   - Read a property (all when prop is omitted)
  watch <path> <iface> [n]    - Print property changes (n changes, default until idle)
  dump [yaml|json]            - Print the mirrored object graph
  devices                     - List devices of the first adapter
  battery <address>           - Show a device's battery level
  help                        - Show this help
  quit                        - Exit`)
}

func (s *Shell) cmdList(args []string) error {
	if err := s.cache.Flush(); err != nil {
		return err
	}
	iface := ""
	if len(args) > 0 {
		iface = args[0]
	}
	for path, obj := range s.cache.Objects() {
		if iface != "" {
			if _, ok := obj[iface]; !ok {
				continue
			}
		}
		fmt.Fprintf(s.env.Out, "%s  (%d interfaces)\n", path, len(obj))
	}
	fmt.Fprintf(s.env.Out, "%d objects\n", s.cache.Len())
	return nil
}

func (s *Shell) cmdShow(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: show <path>")
	}
	if err := s.cache.Flush(); err != nil {
		return err
	}
	obj, ok := s.cache.Get(value.ObjectPath(args[0]))
	if !ok {
		return fmt.Errorf("%s: %w", args[0], commands.ErrNotFound)
	}
	fmt.Fprintln(s.env.Out, args[0])
	commands.WriteObject(s.env.Out, "  ", obj)
	return nil
}

func (s *Shell) cmdFind(args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return errors.New("usage: find <iface> [prop [value]]")
	}
	opts := commands.FindOptions{Interface: args[0], Timeout: s.env.Config.Timeouts.Find}
	if len(args) > 1 {
		opts.Property = args[1]
	}
	if len(args) > 2 {
		opts.Value = args[2]
	}
	path, ok, err := objcache.FindFirst(s.cache, opts.Predicate(), opts.Timeout)
	if err != nil {
		return err
	}
	if !ok {
		return commands.ErrNotFound
	}
	fmt.Fprintln(s.env.Out, path)
	return nil
}

func (s *Shell) cmdGet(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: get <path> <iface> [prop]")
	}
	prop := ""
	if len(args) == 3 {
		prop = args[2]
	}
	return commands.RunGet(s.env, value.ObjectPath(args[0]), args[1], prop)
}

func (s *Shell) cmdWatch(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: watch <path> <iface> [n]")
	}
	opts := commands.WatchOptions{Path: value.ObjectPath(args[0]), Interface: args[1], UntilIdle: true}
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid count: %s", args[2])
		}
		opts.Count = n
		opts.UntilIdle = false
	}
	return commands.RunWatch(context.Background(), s.env, opts)
}

func (s *Shell) cmdDump(args []string) error {
	format := "yaml"
	if len(args) > 0 {
		format = args[0]
	}
	if format == "cbor" {
		return errors.New("cbor is binary; use the dump command with -o")
	}
	return commands.RunDump(s.env, format, s.env.Out)
}
