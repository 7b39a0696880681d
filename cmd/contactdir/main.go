package main

import (
	"contactdir/cmd/contactdir/commands"
	"contactdir/lib/serviceutil"
	"contactdir/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "contactdir")
	commands.ExecuteContext(ctx)
}
