package entity

import (
	"context"
	"net/url"
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

const (
	queryPlaceholder  = ":query"
	defaultValueField = "id"
	defaultLabelField = "name"
)

// FetchFunc performs a blocking GET of endpoint and returns the raw JSON body.
// Cancellation is up to the context the caller passes.
type FetchFunc func(ctx context.Context, endpoint string) ([]byte, error)

// envelopeKeys are tried in order when no items path is configured
var envelopeKeys = []string{"items", "data", "results"}

// fieldConfig says where options live inside a response
type fieldConfig struct {
	itemsPath  string
	valueField string
	labelField string
}

func (c fieldConfig) withDefaults() fieldConfig {
	if c.valueField == "" {
		c.valueField = defaultValueField
	}
	if c.labelField == "" {
		c.labelField = defaultLabelField
	}
	return c
}

// ResolveLabel fetches the record for id and extracts its label.
// Any failure is reported as unresolved.
func (r *Resolver) ResolveLabel(ctx context.Context, entityType, id string, fetch FetchFunc) (string, bool) {
	def, ok := r.entities[entityType]
	if !ok || fetch == nil || id == "" {
		return "", false
	}
	cfg := fieldConfig{valueField: def.ValueField, labelField: def.LabelField}.withDefaults()
	return r.resolve(ctx, fillID(def.ResolveEndpoint, id), cfg, fetch)
}

// Search fetches candidates for query. Any failure yields no results.
func (r *Resolver) Search(ctx context.Context, entityType, query string, fetch FetchFunc) []models.Option {
	def, ok := r.entities[entityType]
	if !ok || fetch == nil || def.SearchEndpoint == "" {
		return nil
	}
	cfg := fieldConfig{itemsPath: def.ItemsPath, valueField: def.ValueField, labelField: def.LabelField}.withDefaults()
	return r.fetchOptions(ctx, searchURL(def.SearchEndpoint, query), cfg, fetch)
}

// LoadOptions returns the options of a select-like filter. Static options win;
// otherwise the options endpoint is fetched.
func (r *Resolver) LoadOptions(ctx context.Context, def models.FilterDefinition, fetch FetchFunc) []models.Option {
	if len(def.Options) > 0 {
		out := make([]models.Option, len(def.Options))
		copy(out, def.Options)
		return out
	}
	if def.OptionsEndpoint == "" || fetch == nil {
		return nil
	}
	return r.fetchOptions(ctx, def.OptionsEndpoint, filterFields(def), fetch)
}

// SearchOptions searches the candidates of a filter: its own search endpoint first,
// then its entity type, then its static options matched by label.
func (r *Resolver) SearchOptions(ctx context.Context, def models.FilterDefinition, query string, fetch FetchFunc) []models.Option {
	switch {
	case def.SearchEndpoint != "" && fetch != nil:
		return r.fetchOptions(ctx, searchURL(def.SearchEndpoint, query), filterFields(def), fetch)
	case def.EntityType != "":
		return r.Search(ctx, def.EntityType, query, fetch)
	default:
		return matchOptions(def.Options, query)
	}
}

// ResolveOption resolves the label of a filter value through the filter's own
// resolve endpoint or its entity type. Static options are matched locally.
func (r *Resolver) ResolveOption(ctx context.Context, def models.FilterDefinition, id string, fetch FetchFunc) (string, bool) {
	for _, opt := range def.Options {
		if opt.Value == id {
			return opt.Label, true
		}
	}
	switch {
	case def.ResolveEndpoint != "" && fetch != nil && id != "":
		return r.resolve(ctx, fillID(def.ResolveEndpoint, id), filterFields(def), fetch)
	case def.EntityType != "":
		return r.ResolveLabel(ctx, def.EntityType, id, fetch)
	}
	return "", false
}

func (r *Resolver) resolve(ctx context.Context, endpoint string, cfg fieldConfig, fetch FetchFunc) (string, bool) {
	log := r.log.With("endpoint", endpoint)

	body, err := fetch(ctx, endpoint)
	if err != nil {
		log.With("error", err.Error()).Debug("entity resolve failed")
		return "", false
	}
	doc, err := decode(body)
	if err != nil {
		log.Debug("entity resolve returned invalid JSON")
		return "", false
	}

	// records are sometimes wrapped in a {"data": {...}} envelope
	for _, candidate := range []any{doc, unwrapData(doc)} {
		if candidate == nil {
			continue
		}
		if v, err := GetValueAtPath(candidate, ParsePath(cfg.labelField)); err == nil {
			if label, ok := scalarString(v); ok {
				return label, true
			}
		}
	}
	log.With("label_field", cfg.labelField).Debug("entity resolve response has no label field")
	return "", false
}

func (r *Resolver) fetchOptions(ctx context.Context, endpoint string, cfg fieldConfig, fetch FetchFunc) []models.Option {
	log := r.log.With("endpoint", endpoint)

	body, err := fetch(ctx, endpoint)
	if err != nil {
		log.With("error", err.Error()).Debug("option fetch failed")
		return nil
	}
	items, err := ExtractItems(body, cfg.itemsPath)
	if err != nil {
		log.With("error", err.Error()).Debug("option fetch returned an unexpected shape")
		return nil
	}

	options := make([]models.Option, 0, len(items))
	for _, item := range items {
		if opt, ok := ExtractOption(item, cfg.valueField, cfg.labelField); ok {
			options = append(options, opt)
		}
	}
	return options
}

// ExtractItems finds the list of items in a response. Without an items path a bare
// array or a well-known envelope key is accepted.
func ExtractItems(body any, itemsPath string) ([]any, error) {
	doc, err := decode(body)
	if err != nil {
		return nil, err
	}

	if itemsPath != "" {
		v, err := GetValueAtPath(doc, ParsePath(itemsPath))
		if err != nil {
			return nil, err
		}
		items, ok := v.([]any)
		if !ok {
			return nil, errNotAList(itemsPath)
		}
		return items, nil
	}

	if items, ok := doc.([]any); ok {
		return items, nil
	}
	if obj, ok := doc.(map[string]any); ok {
		for _, key := range envelopeKeys {
			if items, ok := obj[key].([]any); ok {
				return items, nil
			}
		}
		if data, ok := obj["data"].(map[string]any); ok {
			for _, key := range envelopeKeys {
				if items, ok := data[key].([]any); ok {
					return items, nil
				}
			}
		}
	}
	return nil, errNotAList("(root)")
}

// ExtractOption reads value and label out of one item. A scalar item is its own value and label.
// An item without a value is skipped; a missing label falls back to the value.
func ExtractOption(item any, valueField, labelField string) (models.Option, bool) {
	if s, ok := scalarString(item); ok {
		return models.Option{Value: s, Label: s}, s != ""
	}
	if valueField == "" {
		valueField = defaultValueField
	}
	if labelField == "" {
		labelField = defaultLabelField
	}

	raw, err := GetValueAtPath(item, ParsePath(valueField))
	if err != nil {
		return models.Option{}, false
	}
	value, ok := scalarString(raw)
	if !ok || value == "" {
		return models.Option{}, false
	}

	label := value
	if raw, err := GetValueAtPath(item, ParsePath(labelField)); err == nil {
		if s, ok := scalarString(raw); ok && s != "" {
			label = s
		}
	}
	return models.Option{Value: value, Label: label}, true
}

func filterFields(def models.FilterDefinition) fieldConfig {
	return fieldConfig{itemsPath: def.ItemsPath, valueField: def.ValueField, labelField: def.LabelField}.withDefaults()
}

func unwrapData(doc any) any {
	if obj, ok := doc.(map[string]any); ok {
		return obj["data"]
	}
	return nil
}

// searchURL substitutes :query, or appends q=<query> when the endpoint has no placeholder
func searchURL(endpoint, query string) string {
	if strings.Contains(endpoint, queryPlaceholder) {
		return strings.ReplaceAll(endpoint, queryPlaceholder, url.QueryEscape(query))
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + "q=" + url.QueryEscape(query)
}

func matchOptions(options []models.Option, query string) []models.Option {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []models.Option
	for _, opt := range options {
		if query == "" || strings.Contains(strings.ToLower(opt.Label), query) || strings.Contains(strings.ToLower(opt.Value), query) {
			out = append(out, opt)
		}
	}
	return out
}
