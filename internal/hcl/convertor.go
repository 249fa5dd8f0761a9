package hcl

import (
	"context"
	"fmt"

	"github.com/vk/tamigo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeOverrides converts an object or map of whole numbers into Go
// values. A missing attribute yields a nil map.
func decodeOverrides(ctx context.Context, val cty.Value) (map[string]int64, error) {
	if val.IsNull() {
		return nil, nil
	}
	logger := ctxlog.FromContext(ctx)

	target := cty.Map(cty.Number)
	logger.Debug("Preparing to decode overrides.",
		"source_type", val.Type().FriendlyName(),
		"target_type", target.FriendlyName(),
	)

	converted, err := convert.Convert(val, target)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), target.FriendlyName(), err)
	}
	if !converted.IsWhollyKnown() {
		return nil, fmt.Errorf("overrides must be known values")
	}

	out := make(map[string]int64)
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, err
	}
	return out, nil
}
