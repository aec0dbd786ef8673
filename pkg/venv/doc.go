package venv

/*
Package venv provisions the isolated environments uvx installs packages into.

It handles:
  - Deterministic venv paths (<work>/venvs/<name>)
  - Guarded creation (an existing venv is never clobbered unless forced)
  - Recursive destruction that tolerates an already missing venv
  - Scoped activation: PATH and VIRTUAL_ENV are overridden for the duration
    of a scope and restored in strict LIFO order

Basic Usage:

    p := venv.NewProvisioner(workDir, pm, logger)

    path, err := p.Create(ctx, "black", &venv.Options{Python: "3.12"})
    if err != nil {
        return err
    }

    restore, err := venv.Enter(path)
    if err != nil {
        return err
    }
    defer restore()

    // tools started here resolve against the venv
*/
