//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package logging sets up the structured logger the engine uses to
// trace protocol steps.
package logging

import "go.uber.org/zap"

// New builds a development logger (human-readable, Debug level
// enabled) when debug is true, otherwise a production logger (JSON,
// Info level and above).
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Party returns a logger scoped to one party's engine instance, so
// log lines from a three-process loopback test are distinguishable.
func Party(log *zap.Logger, self string) *zap.Logger {
	return log.With(zap.String("party", self))
}
