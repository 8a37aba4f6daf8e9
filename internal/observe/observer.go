// Package observe defines the checkpoint interface the ingestion and
// cleaning cores report through. The cores carry no logging dependency
// of their own; callers inject an Observer (or get a no-op).
package observe

import "go.uber.org/zap"

// Observer receives progress checkpoints from the core pipelines.
type Observer interface {
	// StrategyAttempted fires before a parsing strategy runs.
	StrategyAttempted(strategy, encoding string)
	// StrategyResult fires after a strategy returns, with the shape of
	// whatever it produced. err is nil on acceptance.
	StrategyResult(strategy, encoding string, rows, cols int, err error)
	// StageApplied fires after a cleaning stage, with how many rows or
	// columns the stage touched.
	StageApplied(stage string, affected int)
}

type nopObserver struct{}

func (nopObserver) StrategyAttempted(string, string)                {}
func (nopObserver) StrategyResult(string, string, int, int, error) {}
func (nopObserver) StageApplied(string, int)                       {}

// Nop returns an observer that discards every checkpoint.
func Nop() Observer { return nopObserver{} }

type logObserver struct {
	logger *zap.Logger
}

// NewLogObserver adapts a zap logger into an Observer.
func NewLogObserver(logger *zap.Logger) Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) StrategyAttempted(strategy, encoding string) {
	o.logger.Debug("strategy attempted",
		zap.String("strategy", strategy),
		zap.String("encoding", encoding))
}

func (o *logObserver) StrategyResult(strategy, encoding string, rows, cols int, err error) {
	if err != nil {
		o.logger.Debug("strategy failed",
			zap.String("strategy", strategy),
			zap.String("encoding", encoding),
			zap.Error(err))
		return
	}
	o.logger.Info("strategy succeeded",
		zap.String("strategy", strategy),
		zap.String("encoding", encoding),
		zap.Int("rows", rows),
		zap.Int("columns", cols))
}

func (o *logObserver) StageApplied(stage string, affected int) {
	o.logger.Info("stage applied",
		zap.String("stage", stage),
		zap.Int("affected", affected))
}
