package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/auth"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
	clierrors "github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/errors"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/formatter"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/logger"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/output"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/trustlevel"
)

// RepliesToDifferentTopicsDefault is the TL1 threshold used when
// requirements.include_replies is on.
const RepliesToDifferentTopicsDefault = 3

// BuildTable applies the requirements.* settings to the default table.
// Overrides live under requirements.tl0, tl1 and tl2, keyed by
// requirement name. The dynamic TL2 values are always recomputed from
// site stats and cannot be overridden.
func BuildTable() (trustlevel.Table, error) {
	table := trustlevel.DefaultTable()

	if config.GetBool("requirements.include_replies") {
		var err error
		table, err = table.With(1, trustlevel.RepliesToDifferentTopics, RepliesToDifferentTopicsDefault)
		if err != nil {
			return table, err
		}
	}

	for tier := 0; tier < trustlevel.TierCount; tier++ {
		prefix := fmt.Sprintf("requirements.tl%d", tier)
		overrides, err := tierOverrides(prefix)
		if err != nil {
			return table, err
		}

		// Keys new to a tier are appended, so apply them in display order.
		for _, key := range trustlevel.AllKeys {
			name, ok := overrides[key]
			if !ok {
				continue
			}
			needed := config.GetFloat(prefix + "." + name)
			if needed < 0 {
				return table, clierrors.ConfigError(prefix+"."+name, "must not be negative")
			}
			if tier == trustlevel.MaintainTier && (key == trustlevel.PostsReadCount || key == trustlevel.TopicsEntered) {
				logger.Warn("Ignoring override of a dynamic threshold", "key", prefix+"."+name)
				continue
			}

			table, err = table.With(tier, key, needed)
			if err != nil {
				return table, err
			}
		}
	}
	return table, nil
}

// tierOverrides maps each configured key under prefix to its config name.
func tierOverrides(prefix string) (map[trustlevel.Key]string, error) {
	names := make([]string, 0)
	for name := range config.Sub(prefix) {
		names = append(names, name)
	}
	sort.Strings(names)

	overrides := make(map[trustlevel.Key]string, len(names))
	for _, name := range names {
		key, ok := trustlevel.ParseKey(name)
		if !ok {
			return nil, clierrors.ConfigError(prefix+"."+name, "unknown requirement")
		}
		overrides[key] = name
	}
	return overrides, nil
}

// RequirementsService shows requirement sets without a user
type RequirementsService struct{}

// NewRequirementsService creates a new requirements service
func NewRequirementsService() *RequirementsService {
	return &RequirementsService{}
}

// Show prints the requirements that apply at level. Site stats are only
// fetched for the dynamic tier.
func (rs *RequirementsService) Show(ctx context.Context, level int) error {
	logger.Debug("Showing requirements", "level", level)

	table, err := BuildTable()
	if err != nil {
		return err
	}

	var site *trustlevel.SiteStats
	if level == 2 || level == 3 {
		target, err := auth.ResolveTarget("")
		if err != nil {
			return err
		}
		source, err := openSource(target)
		if err != nil {
			return err
		}
		stats, err := source.FetchSiteStats(ctx)
		if err != nil {
			return err
		}
		site = &stats
	}

	res, err := table.Resolve(level, site)
	if err != nil {
		if errors.Is(err, trustlevel.ErrHidden) {
			return clierrors.UnsupportedLevelError(level)
		}
		return err
	}

	switch output.GetOutputFormat() {
	case output.FormatTable:
		rows := make([][]string, 0, len(res.Requirements))
		for _, t := range res.Requirements {
			e := trustlevel.Entry{Key: t.Key, IsTime: t.Key.IsTime(), NeededMinutes: trustlevel.Minutes(t.Needed)}
			rows = append(rows, []string{t.Key.Label(), formatter.FormatValue(e, t.Needed, e.NeededMinutes)})
		}
		return output.PrintList(res, []string{"Requirement", "Needed"}, rows)
	default:
		return output.Print(res, func(w io.Writer) {
			formatter.RenderRequirements(w, res)
		})
	}
}

// ParseLevel reads a trust level argument such as "2" or "tl2".
func ParseLevel(s string) (int, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "tl")
	level, err := strconv.Atoi(s)
	if err != nil || level < 0 {
		return 0, clierrors.ValidationError("level", fmt.Sprintf("%q is not a trust level", s))
	}
	return level, nil
}
