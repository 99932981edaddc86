package handler

// DI for a single run.

import (
	"github.com/yumyai/ppp-onestep/internal/config"
	"github.com/yumyai/ppp-onestep/pkg/pepstats"
)

type RunContext struct {
	Runner       *pepstats.Runner
	SequenceFile string
	OutputDir    string
	Policy       config.Policy
}
