// Command bluecache mirrors the object tree of a D-Bus service and queries
// it.
//
// Usage:
//
//	bluecache <command> [flags] [args]
//
// Commands:
//
//	list     List mirrored objects
//	find     Wait for an object with an interface or property value
//	get      Read a property through a property cache
//	watch    Print property changes of one object
//	dump     Export the object graph (cbor, yaml, json)
//	devices  List BlueZ devices of the first adapter
//	battery  Show the battery level of a BlueZ device
//	shell    Start the interactive shell
//	config   Print the effective configuration
//
// Examples:
//
//	# List everything BlueZ exposes
//	bluecache list
//
//	# Wait up to 30s for a device with a given address
//	bluecache find -timeout 30s org.bluez.Device1 Address AA:BB:CC:DD:EE:FF
//
//	# Export a snapshot and record the protocol exchange
//	bluecache dump -format cbor -o bluez.cbor -protocol-log bluez.blog
//
//	# Browse the session bus
//	bluecache shell -bus session -service org.freedesktop.Notifications
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bluecache/bluecache-go/cmd/bluecache/commands"
	"github.com/bluecache/bluecache-go/cmd/bluecache/interactive"
	"github.com/bluecache/bluecache-go/pkg/value"
)

const usage = `bluecache - D-Bus object tree mirror

Usage:
  bluecache <command> [flags] [args]

Commands:
  list     List mirrored objects
  find     Wait for an object with an interface or property value
  get      Read a property through a property cache
  watch    Print property changes of one object
  dump     Export the object graph (cbor, yaml, json)
  devices  List BlueZ devices of the first adapter
  battery  Show the battery level of a BlueZ device
  shell    Start the interactive shell
  config   Print the effective configuration

Use "bluecache <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "list", "ls":
		err = runList(args)
	case "find":
		err = runFind(args)
	case "get":
		err = runGet(args)
	case "watch":
		err = runWatch(args)
	case "dump":
		err = runDump(args)
	case "devices":
		err = runDevices(args)
	case "battery":
		err = runBattery(args)
	case "shell":
		err = runShell(args)
	case "config":
		err = runConfig(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, commands.ErrNotFound) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func runList(args []string) error {
	fs, g := newFlagSet("list", "[flags]", "List mirrored objects")
	iface := fs.String("interface", "", "Only list objects exposing this interface")
	verbose := fs.Bool("v", false, "Print every property")
	parse(fs, args, 0)

	env, closeEnv, err := g.open()
	if err != nil {
		return err
	}
	defer closeEnv()
	return commands.RunList(env, commands.ListOptions{Interface: *iface, Verbose: *verbose})
}

func runFind(args []string) error {
	fs, g := newFlagSet("find", "[flags] <interface> [property [value]]", "Wait for a matching object")
	all := fs.Bool("all", false, "Print every match seen before the wait goes idle")
	parse(fs, args, 1)

	env, closeEnv, err := g.open()
	if err != nil {
		return err
	}
	defer closeEnv()
	return commands.RunFind(env, commands.FindOptions{
		Interface: fs.Arg(0),
		Property:  fs.Arg(1),
		Value:     fs.Arg(2),
		Timeout:   env.Config.Timeouts.Find,
		All:       *all,
	})
}

func runGet(args []string) error {
	fs, g := newFlagSet("get", "[flags] <path> <interface> [property]", "Read a property (all properties when omitted)")
	parse(fs, args, 2)

	env, closeEnv, err := g.open()
	if err != nil {
		return err
	}
	defer closeEnv()
	return commands.RunGet(env, value.ObjectPath(fs.Arg(0)), fs.Arg(1), fs.Arg(2))
}

func runWatch(args []string) error {
	fs, g := newFlagSet("watch", "[flags] <path> <interface>", "Print property changes until interrupted")
	count := fs.Int("n", 0, "Stop after this many changes (0 = no limit)")
	idle := fs.Bool("until-idle", false, "Stop at the first wait without traffic")
	parse(fs, args, 2)

	env, closeEnv, err := g.open()
	if err != nil {
		return err
	}
	defer closeEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.RunWatch(ctx, env, commands.WatchOptions{
		Path:      value.ObjectPath(fs.Arg(0)),
		Interface: fs.Arg(1),
		Count:     *count,
		UntilIdle: *idle,
	})
}

func runDump(args []string) error {
	fs, g := newFlagSet("dump", "[flags]", "Export the mirrored object graph")
	format := fs.String("format", "", "Output format: cbor, yaml, json (default from config)")
	output := fs.String("o", "", "Output file (default: stdout)")
	parse(fs, args, 0)

	env, closeEnv, err := g.open()
	if err != nil {
		return err
	}
	defer closeEnv()

	f := env.Config.Dump.Format
	if *format != "" {
		f = *format
	}
	w := os.Stdout
	if *output != "" {
		file, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		w = file
	}
	return commands.RunDump(env, f, w)
}

func runDevices(args []string) error {
	fs, g := newFlagSet("devices", "[flags] [uuid...]", "List devices, optionally only those advertising every UUID given")
	discover := fs.Bool("discover", false, "Run discovery while waiting")
	parse(fs, args, 0)

	env, closeEnv, err := g.open()
	if err != nil {
		return err
	}
	defer closeEnv()
	return commands.RunDevices(env, commands.DevicesOptions{
		Discover: *discover,
		UUIDs:    fs.Args(),
		Timeout:  env.Config.Timeouts.Find,
	})
}

func runBattery(args []string) error {
	fs, g := newFlagSet("battery", "[flags] <address>", "Show a device's battery level")
	parse(fs, args, 1)

	env, closeEnv, err := g.open()
	if err != nil {
		return err
	}
	defer closeEnv()
	return commands.RunBattery(env, fs.Arg(0))
}

func runShell(args []string) error {
	fs, g := newFlagSet("shell", "[flags]", "Start the interactive shell")
	parse(fs, args, 0)

	env, closeEnv, err := g.open()
	if err != nil {
		return err
	}
	defer closeEnv()

	sh, err := interactive.New(env)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()
	sh.Run(ctx, cancel)
	return nil
}

func runConfig(args []string) error {
	fs, g := newFlagSet("config", "[flags]", "Print the effective configuration")
	parse(fs, args, 0)

	cfg, err := g.config()
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
