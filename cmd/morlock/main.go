package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/herohde/morlock/pkg/engine"
	"github.com/herohde/morlock/pkg/engine/console"
	"github.com/herohde/morlock/pkg/engine/uci"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/seekerror/logw"
)

var (
	depth = flag.Int("depth", 0, "Search depth limit in plies (zero if unlimited)")
	hash  = flag.Int("hash", 16, "Transposition table size in MB (zero disables it)")
	noise = flag.Int("noise", 0, "Evaluation noise in millipawns (zero if deterministic)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: morlock [options]

MORLOCK is a simple UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	opts := engine.Options{
		Depth: uint(*depth),
		Hash:  uint(*hash),
		Noise: uint(*noise),
	}
	e := engine.New(ctx, "morlock", "herohde", eval.MaterialPST{}, engine.WithOptions(opts))

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		// Use UCI protocol.

		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, e.Searcher(), in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
