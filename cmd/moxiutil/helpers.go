package main

import (
	"github.com/spf13/cobra"

	"github.com/couchbase/moxi-sub001/internal/cstr"
	"github.com/couchbase/moxi-sub001/internal/logging"
)

// allocFlags are shared by the commands that allocate owned strings.
type allocFlags struct {
	policy string
	limit  string
}

func (f *allocFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.policy, "policy", "", "On allocation failure: abort or propagate (default from config)")
	cmd.Flags().StringVar(&f.limit, "limit", "", "Allocation budget, e.g. 4KiB; 0 = unlimited (default from config)")
}

// newCopier builds a tracked Copier from the config with flag overrides.
func (f *allocFlags) newCopier() (*cstr.Copier, *cstr.Tracker, error) {
	c := *cfg
	if f.policy != "" {
		c.Alloc.Policy = f.policy
	}
	if f.limit != "" {
		c.Alloc.Limit = f.limit
	}
	policy, err := c.Policy()
	if err != nil {
		return nil, nil, err
	}
	limit, err := c.Limit()
	if err != nil {
		return nil, nil, err
	}

	tracker := cstr.NewTracker(cstr.NewHeap(limit))
	copier := &cstr.Copier{
		Alloc:  tracker,
		Policy: policy,
		Logger: logging.New("moxiutil"),
	}
	return copier, tracker, nil
}
