// Package probe shells out to a network utility and reports its summary
// line. The default is `ping -c N target`, the last output line holds the
// rtt min/avg/max summary.
package probe

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"time"

	"github.com/juju/errors"
	"github.com/thenoizz/dotmenu/helpers"
)

type Config struct {
	Utility    string `hcl:"utility"`
	Target     string `hcl:"target"`
	Count      int    `hcl:"count"`
	TimeoutSec int    `hcl:"timeout_sec"`
}

const (
	defaultUtility = "ping"
	defaultTarget  = "google.com"
	defaultCount   = 4
	defaultTimeout = 20 * time.Second
)

func (c *Config) Defaults() {
	if c.Utility == "" {
		c.Utility = defaultUtility
	}
	if c.Target == "" {
		c.Target = defaultTarget
	}
	if c.Count == 0 {
		c.Count = defaultCount
	}
}

func (c *Config) Timeout() time.Duration {
	return helpers.IntSecondDefault(c.TimeoutSec, defaultTimeout)
}

// Run blocks for up to the configured timeout; callers wanting the UI
// responsive put it in a background task.
func Run(ctx context.Context, cfg Config) (string, error) {
	cfg.Defaults()
	tctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	cmd := exec.CommandContext(tctx, cfg.Utility, cfg.Target, "-c", strconv.Itoa(cfg.Count)) //nolint:gosec
	out, err := cmd.Output()
	if err != nil {
		return "", errors.Annotatef(err, "probe utility=%s target=%s", cfg.Utility, cfg.Target)
	}
	last, err := LastLine(out)
	return last, errors.Annotatef(err, "probe target=%s", cfg.Target)
}

// LastLine returns the last non-empty line of b.
func LastLine(b []byte) (string, error) {
	for len(b) > 0 {
		i := bytes.LastIndexByte(b, '\n')
		line := bytes.TrimSpace(b[i+1:])
		if len(line) > 0 {
			return string(line), nil
		}
		if i < 0 {
			break
		}
		b = b[:i]
	}
	return "", errors.Errorf("no output")
}
