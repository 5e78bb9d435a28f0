package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/chriso345/sigcli"
)

type ServeArgs struct {
	sigcli.Namespace

	Host    string        `desc:"Address to bind"`
	Port    int           `default:"8080" desc:"Port to run the server on"`
	Timeout time.Duration `default:"30s" desc:"Request timeout"`
	Verbose bool          `short:"v" desc:"Enable verbose output"`
	Name    *string       `alias:"--label" desc:"Optional instance name"`

	started time.Time
}

func (a *ServeArgs) SetDefaults() {
	a.started = time.Now()
}

func serve(args *ServeArgs) error {
	fmt.Printf("Parsed Arguments: host=%s port=%d timeout=%s verbose=%t\n",
		args.Host, args.Port, args.Timeout, args.Verbose)
	if args.Name != nil {
		fmt.Println("Instance:", *args.Name)
	}
	return nil
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "sigcli",
		Level:  hclog.LevelFromString(os.Getenv("SIGCLI_LOG")),
		Output: os.Stderr,
	})

	sigcli.Run(serve,
		sigcli.WithName("app"),
		sigcli.WithDescription("An example application demonstrating sigcli features"),
		sigcli.WithVersion("0.1.0"),
		sigcli.WithLogger(logger),
	)
}
