package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
)

// ApplyWeights mutates the classifier's live ensemble weights. Failure is
// logged and reported as false; it never propagates an error.
func (c *Client) ApplyWeights(ctx context.Context, weights model.EnsembleWeights, mode string) bool {
	params := url.Values{}
	params.Set("depression_weight", formatWeight(weights.Depression))
	params.Set("sentiment_weight", formatWeight(weights.Sentiment))
	params.Set("distress_weight", formatWeight(weights.Distress))
	params.Set("ensemble_mode", mode)

	endpoint := c.adminURL + "/ensemble/set-weights?" + params.Encode()

	var parsed setWeightsResponse
	if err := c.postJSON(ctx, endpoint, nil, &parsed); err != nil {
		slog.Error("Failed to apply ensemble weights",
			"depression", weights.Depression,
			"sentiment", weights.Sentiment,
			"distress", weights.Distress,
			"mode", mode,
			"error", err)
		return false
	}

	slog.Debug("Applied ensemble weights",
		"depression", weights.Depression,
		"sentiment", weights.Sentiment,
		"distress", weights.Distress,
		"mode", mode)
	return true
}

// RefreshAfterRestore invalidates the service's configuration caches after
// the original weights or label set have been reinstated. Best effort:
// failure is logged only.
func (c *Client) RefreshAfterRestore(ctx context.Context) bool {
	if err := c.postJSON(ctx, c.adminURL+"/ensemble/refresh-weights", nil, nil); err != nil {
		slog.Warn("Failed to refresh classifier caches after restore", "error", err)
		return false
	}
	return true
}

// CurrentLabelSet returns the name of the classifier's active label set.
func (c *Client) CurrentLabelSet(ctx context.Context) (string, error) {
	var parsed currentLabelsResponse
	if err := c.getJSON(ctx, c.adminURL+"/admin/labels/current", &parsed); err != nil {
		return "", fmt.Errorf("failed to get current label set: %w", err)
	}
	if parsed.CurrentSet == "" {
		return "", fmt.Errorf("classifier reported empty current label set")
	}
	return parsed.CurrentSet, nil
}

// ListLabelSets returns the discrete label-set configurations the
// classifier knows about, handling both response shapes the service has
// shipped.
func (c *Client) ListLabelSets(ctx context.Context) ([]string, error) {
	var parsed listLabelsResponse
	if err := c.getJSON(ctx, c.adminURL+"/admin/labels/list", &parsed); err != nil {
		return nil, fmt.Errorf("failed to list label sets: %w", err)
	}

	if len(parsed.Sets) > 0 {
		names := make([]string, 0, len(parsed.Sets))
		for _, s := range parsed.Sets {
			if s.Name != "" {
				names = append(names, s.Name)
			}
		}
		return names, nil
	}

	return parsed.AvailableSets, nil
}

// SwitchLabelSet activates a different discrete label-set configuration.
// Failure is logged and reported as false.
func (c *Client) SwitchLabelSet(ctx context.Context, name string) bool {
	body, err := json.Marshal(switchLabelsRequest{LabelSet: name})
	if err != nil {
		slog.Error("Failed to marshal label set switch", "label_set", name, "error", err)
		return false
	}

	var parsed switchLabelsResponse
	if err := c.postJSON(ctx, c.adminURL+"/admin/labels/switch", body, &parsed); err != nil {
		slog.Error("Failed to switch label set", "label_set", name, "error", err)
		return false
	}
	if !parsed.Success {
		slog.Error("Classifier rejected label set switch", "label_set", name, "reason", parsed.Error)
		return false
	}

	slog.Debug("Switched label set", "label_set", name)
	return true
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', 4, 64)
}
