package exec

import "github.com/zoobzio/capitan"

// Signals emitted around statement execution.
var (
	StatementPrepared = capitan.NewSignal("tsql.statement.prepared", "Statement rendered and prepared on the connection")
	StatementExecuted = capitan.NewSignal("tsql.statement.executed", "Statement executed successfully")
	StatementFailed   = capitan.NewSignal("tsql.statement.failed", "Statement failed to render, prepare or execute")
	ParameterBound    = capitan.NewSignal("tsql.parameter.bound", "Value bound to a prepared statement placeholder")
	ResultRead        = capitan.NewSignal("tsql.result.read", "Result rows consumed and closed")
)

// Field keys carried by the signals.
var (
	SQLKey        = capitan.NewStringKey("sql")
	DialectKey    = capitan.NewStringKey("dialect")
	ParamsKey     = capitan.NewIntKey("params")
	DurationMsKey = capitan.NewInt64Key("duration_ms")
	RowsKey       = capitan.NewInt64Key("rows")
	IndexKey      = capitan.NewIntKey("index")
	KindKey       = capitan.NewStringKey("kind")
	ErrorKey      = capitan.NewStringKey("error")
)
