package docai

import "go.uber.org/fx"

// Module wires the document-AI processor client.
var Module = fx.Module("docai",
	fx.Provide(
		fx.Annotate(NewClient, fx.As(new(Processor))),
	),
)
