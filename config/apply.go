package config

import (
	"github.com/sandboxsh/vsh/expand"
	"github.com/sandboxsh/vsh/httpclient"
	"github.com/sandboxsh/vsh/interp"
)

// State is an alias for interp.State, the type Apply configures.
type State = interp.State

// Apply configures st according to cfg: seeds the environment and
// working directory, wires a network-enforcing httpclient.Client when
// NetworkConfig.Enabled is set, and overrides the execution limits
// that were left non-zero in cfg.Limits. It is meant to run once,
// immediately after interp.New, before any script executes.
func Apply(st *State, cfg *SandboxConfig) {
	for name, value := range cfg.Env {
		st.Env.Set(name, expand.Variable{Value: expand.StringVal(value), Exported: true})
	}
	st.CWD = cfg.Cwd
	st.Env.Set("PWD", expand.Variable{Value: expand.StringVal(cfg.Cwd), Exported: true})

	if cfg.Network.Enabled {
		st.HTTPClient = httpclient.New(httpclient.Config{Allow: httpclient.AllowList(cfg.Network.Allow)})
	}

	if cfg.Limits.MaxStatements > 0 {
		st.Limits.MaxStatements = cfg.Limits.MaxStatements
	}
	if cfg.Limits.MaxLoopIterations > 0 {
		st.Limits.MaxLoopIterations = cfg.Limits.MaxLoopIterations
	}
}
