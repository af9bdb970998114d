package blob

import "go.uber.org/fx"

// Module wires the local filesystem object store.
var Module = fx.Module("blob",
	fx.Provide(
		fx.Annotate(NewLocalStore, fx.As(new(Store))),
	),
)
