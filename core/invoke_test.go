package core

import (
	"bytes"
	stderrs "errors"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/chriso345/gore/assert"
	"github.com/chriso345/gore/vital"
	"github.com/google/go-cmp/cmp"

	clierr "github.com/chriso345/sigcli/errors"
)

func newTestCommand(t *testing.T, fn any, opts ...Option) (*Command, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithName("app"), WithOutput(&out), WithErrOutput(&out)}, opts...)
	cmd, err := New(fn, opts...)
	vital.Nil(t, err)
	return cmd, &out
}

func TestCall_DefaultsAndToggle(t *testing.T) {
	var gotTimeout int
	var gotVerbose bool
	cmd, _ := newTestCommand(t, func(timeout int, verbose bool) {
		gotTimeout, gotVerbose = timeout, verbose
	}, Params(Arg("timeout", Default(30)), Arg("verbose")))

	_, err := cmd.Call([]string{"--verbose"})
	assert.Nil(t, err)
	assert.Equal(t, gotTimeout, 30)
	assert.True(t, gotVerbose)

	_, err = cmd.Call([]string{"--timeout", "5"})
	assert.Nil(t, err)
	assert.Equal(t, gotTimeout, 5)
	assert.Equal(t, gotVerbose, false)
}

func TestCall_SeparatorRoundTrip(t *testing.T) {
	cmd, _ := newTestCommand(t, func(retry_count int) int { return retry_count }, Params(Arg("retry_count")))

	out, err := cmd.Call([]string{"--retry-count", "5"})
	assert.Nil(t, err)
	if diff := cmp.Diff([]any{5}, out); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}

	out, err = cmd.Call([]string{"--retry-count=7"})
	assert.Nil(t, err)
	assert.Equal(t, out[0], any(7))
}

func TestCall_OptionalAbsent(t *testing.T) {
	var got *string
	called := false
	cmd, _ := newTestCommand(t, func(name *string) {
		got, called = name, true
	}, Params(Arg("name")))

	_, err := cmd.Call([]string{})
	assert.Nil(t, err)
	assert.True(t, called)
	assert.True(t, got == nil)

	_, err = cmd.Call([]string{"--name", "ada"})
	assert.Nil(t, err)
	if got == nil {
		t.Fatalf("expected name to be set")
	}
	assert.Equal(t, *got, "ada")
}

func TestCall_OptionalWrapper(t *testing.T) {
	var got Optional[int]
	cmd, _ := newTestCommand(t, func(limit Optional[int], ratio Optional[float64]) {
		got = limit
	}, Params(Arg("limit"), Arg("ratio", Default(0.5))))

	inv, err := cmd.Parse([]string{})
	vital.Nil(t, err)
	args := inv.Args()
	assert.Equal(t, args[0], any(Optional[int]{}))
	assert.Equal(t, args[1], any(Some(0.5)))

	_, err = cmd.Call([]string{"--limit", "10"})
	assert.Nil(t, err)
	v, ok := got.Get()
	assert.True(t, ok)
	assert.Equal(t, v, 10)
}

func TestCall_OptionalBool(t *testing.T) {
	var got *bool
	cmd, _ := newTestCommand(t, func(color *bool) { got = color }, Params(Arg("color")))

	_, err := cmd.Call([]string{})
	assert.Nil(t, err)
	assert.True(t, got == nil)

	_, err = cmd.Call([]string{"--color"})
	assert.Nil(t, err)
	assert.True(t, got != nil && *got)

	_, err = cmd.Call([]string{"--color=false"})
	assert.Nil(t, err)
	assert.True(t, got != nil && !*got)
}

func TestCall_Aliases(t *testing.T) {
	var got bool
	cmd, _ := newTestCommand(t, func(verbose bool) { got = verbose },
		Params(Arg("verbose", Alias("-v", "--loud"))))

	for _, args := range [][]string{{"-v"}, {"--verbose"}, {"--loud"}} {
		got = false
		_, err := cmd.Call(args)
		assert.Nil(t, err)
		assert.True(t, got)
	}
}

func TestCall_KeywordOnly(t *testing.T) {
	var gotURL string
	var gotKw Kwargs
	cmd, _ := newTestCommand(t, func(url string, kw Kwargs) {
		gotURL, gotKw = url, kw
	}, Params(
		Arg("url"),
		Keyword("retries", Default(3)),
		Keyword("timeout", Type[time.Duration]()),
		Keyword("label"),
		Keyword("_trace", Default(true)),
	), KeywordDefaults(map[string]any{"label": "none"}))

	_, err := cmd.Call([]string{"--url", "https://example.org", "--timeout", "2s"})
	assert.Nil(t, err)
	assert.Equal(t, gotURL, "https://example.org")
	want := Kwargs{"retries": 3, "timeout": 2 * time.Second, "label": "none", "_trace": true}
	if diff := cmp.Diff(want, gotKw); diff != "" {
		t.Errorf("kwargs mismatch (-want +got):\n%s", diff)
	}
}

func TestCall_PrivatePositional(t *testing.T) {
	var gotSeed int
	cmd, out := newTestCommand(t, func(name string, _seed int) { gotSeed = _seed },
		Params(Arg("name", Default("x")), Arg("_seed", Default(42))))

	_, err := cmd.Call([]string{})
	assert.Nil(t, err)
	assert.Equal(t, gotSeed, 42)

	_, err = cmd.Call([]string{"--_seed", "1"})
	assert.NotNil(t, err)
	assert.StringContains(t, out.String(), "unknown flag")
}

func TestCall_BlankParameter(t *testing.T) {
	var gotName string
	cmd, _ := newTestCommand(t, func(_ int, name string) { gotName = name },
		Params(Arg("_"), Arg("name")))

	inv, err := cmd.Parse([]string{"--name", "ada"})
	vital.Nil(t, err)
	assert.Equal(t, inv.Args()[0], any(0))

	_, err = inv.Call()
	assert.Nil(t, err)
	assert.Equal(t, gotName, "ada")

	cmd, _ = newTestCommand(t, func(_ int) {}, Params(Arg("_", Default(7))))
	inv, err = cmd.Parse([]string{})
	vital.Nil(t, err)
	assert.Equal(t, inv.Args()[0], any(7))
}

func TestNew_RejectsBuiltinFlagNames(t *testing.T) {
	cases := []struct {
		name string
		fn   any
		opts []Option
	}{
		{"help", func(help string) {}, []Option{Params(Arg("help", Default("x")))}},
		{"help toggle", func(help bool) {}, []Option{Params(Arg("help"))}},
		{"help alias", func(topic string) {}, []Option{Params(Arg("topic", Alias("--help")))}},
		{"version", func(version string) {}, []Option{Params(Arg("version")), WithVersion("1.0")}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.fn, append([]Option{WithName("app")}, c.opts...)...)
			assert.NotNil(t, err)
		})
	}
}

func TestCall_VersionParameterWithoutVersionFlag(t *testing.T) {
	var got string
	cmd, _ := newTestCommand(t, func(version string) { got = version }, Params(Arg("version")))

	_, err := cmd.Call([]string{"--version", "2"})
	assert.Nil(t, err)
	assert.Equal(t, got, "2")
}

func TestCall_ReturnsCallableError(t *testing.T) {
	boom := stderrs.New("boom")
	cmd, _ := newTestCommand(t, func(n int) (string, error) { return "partial", boom },
		Params(Arg("n", Default(1))))

	out, err := cmd.Call([]string{})
	assert.Equal(t, err, boom)
	if diff := cmp.Diff([]any{"partial"}, out); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestCall_MissingRequired(t *testing.T) {
	called := false
	cmd, out := newTestCommand(t, func(host string) { called = true }, Params(Arg("host")))

	_, err := cmd.Call([]string{})
	assert.NotNil(t, err)
	assert.Equal(t, called, false)
	assert.StringContains(t, err.Error(), `required flag(s) "host" not set`)
	assert.StringContains(t, stripANSI(out.String()), "Usage: app --host <HOST> [OPTIONS]")
}

func TestCall_CoercionFailure(t *testing.T) {
	cmd, _ := newTestCommand(t, func(port int) {}, Params(Arg("port", Default(80))))

	_, err := cmd.Call([]string{"--port", "eighty"})
	assert.NotNil(t, err)
	assert.StringContains(t, err.Error(), "--port")
}

func TestCall_RejectsPositionalArguments(t *testing.T) {
	cmd, _ := newTestCommand(t, func(port int) {}, Params(Arg("port", Default(80))))

	_, err := cmd.Call([]string{"extra"})
	assert.NotNil(t, err)
}

func TestParse_Help(t *testing.T) {
	called := false
	cmd, out := newTestCommand(t, func(host string, verbose bool) { called = true },
		Params(Arg("host", Usage("Address to bind")), Arg("verbose", Alias("-v"))),
		WithDescription("Serve things"))

	_, err := cmd.Parse([]string{"--help"})
	assert.True(t, stderrs.Is(err, clierr.ErrHelp))
	assert.Equal(t, called, false)

	help := stripANSI(out.String())
	assert.StringContains(t, help, "Usage: app --host <HOST> [OPTIONS]")
	assert.StringContains(t, help, "Serve things")
	assert.StringContains(t, help, "--host [HOST]")
	assert.StringContains(t, help, "Address to bind (required)")
	assert.StringContains(t, help, "-v, --verbose")
	assert.StringContains(t, help, "-h, --help")
}

func TestParse_Version(t *testing.T) {
	cmd, out := newTestCommand(t, func(n int) {}, Params(Arg("n", Default(1))), WithVersion("1.2.3"))

	_, err := cmd.Parse([]string{"--version"})
	assert.True(t, stderrs.Is(err, clierr.ErrVersion))
	assert.StringContains(t, out.String(), "app v1.2.3")
}

type serveArgs struct {
	Namespace

	Host    string
	Port    int  `default:"8080"`
	Verbose bool `short:"v"`
	Tags    *string
	started bool
}

func (s *serveArgs) SetDefaults() { s.started = true }

func TestCall_StructuredMode(t *testing.T) {
	var got serveArgs
	cmd, _ := newTestCommand(t, func(s serveArgs) { got = s })
	assert.Equal(t, cmd.Plan().Mode(), StructuredMode)

	_, err := cmd.Call([]string{"--host", "localhost", "-v"})
	assert.Nil(t, err)
	assert.Equal(t, got.Host, "localhost")
	assert.Equal(t, got.Port, 8080)
	assert.True(t, got.Verbose)
	assert.True(t, got.Tags == nil)
	assert.True(t, got.started)
}

func TestCall_StructuredModePointer(t *testing.T) {
	var got *serveArgs
	cmd, _ := newTestCommand(t, func(s *serveArgs) error {
		got = s
		return nil
	})

	_, err := cmd.Call([]string{"--host", "h", "--port", "9000", "--tags", "a"})
	assert.Nil(t, err)
	if got == nil {
		t.Fatalf("expected callable to receive the target")
	}
	assert.Equal(t, got.Port, 9000)
	assert.Equal(t, *got.Tags, "a")
}

func TestCall_StructuredModeMissingRequired(t *testing.T) {
	cmd, _ := newTestCommand(t, func(s serveArgs) {})

	_, err := cmd.Call([]string{"--port", "1"})
	assert.NotNil(t, err)
	assert.StringContains(t, err.Error(), "host")
}

func TestMain_ExitCodes(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	oldExit := osExit
	defer func() { osExit = oldExit }()

	code := -1
	osExit = func(c int) { code = c }

	cmd, out := newTestCommand(t, func(n int) error {
		if n < 0 {
			return stderrs.New("negative")
		}
		return nil
	}, Params(Arg("n")))

	cases := []struct {
		args []string
		code int
	}{
		{[]string{"app", "--n", "1"}, -1},
		{[]string{"app", "--help"}, 0},
		{[]string{"app"}, 2},
		{[]string{"app", "--n", "-1"}, 1},
	}
	for _, c := range cases {
		code = -1
		os.Args = c.args
		cmd.Main()
		assert.Equal(t, code, c.code)
	}
	assert.StringContains(t, stripANSI(out.String()), "Error: negative")
}

func stripANSI(input string) string {
	re := regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
	return re.ReplaceAllString(input, "")
}
