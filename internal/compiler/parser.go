package compiler

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	allowDuplicateIDs bool
}

// WithDuplicateFlowIDs tolerates repeated flow ids. Lookups then resolve to the first match in
// document order, which is how the recorder has always behaved with hand-edited files.
func WithDuplicateFlowIDs() ParseOption {
	return func(c *parseConfig) {
		c.allowDuplicateIDs = true
	}
}

// Parse converts a decoded flow document (the generic mapping produced by a YAML or JSON decoder)
// into a typed Document. It fails with the first *domain.SpecError found, in document order.
func Parse(raw map[string]any, opts ...ParseOption) (*domain.Document, error) {
	cfg := parseConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if raw == nil {
		return nil, domain.Mismatch("", "mapping at document root", nil)
	}
	p := &parser{cfg: cfg}
	return p.document(raw)
}

type parser struct {
	cfg parseConfig
}

func (p *parser) document(raw map[string]any) (*domain.Document, error) {
	v, ok := raw["version"]
	if !ok {
		return nil, domain.Missing("version")
	}
	version, err := schema.Int().Coerce(v)
	if err != nil {
		return nil, domain.Mismatch("version", "int", v)
	}
	if version != domain.SupportedVersion {
		return nil, &domain.SpecError{
			Kind:   domain.KindUnsupportedVersion,
			Path:   "version",
			Reason: fmt.Sprintf("only version %d is supported", domain.SupportedVersion),
			Value:  version,
		}
	}

	doc := &domain.Document{Version: version}

	if doc.Meta, err = p.meta(raw); err != nil {
		return nil, err
	}
	if doc.Global, err = p.global(raw); err != nil {
		return nil, err
	}

	flowsRaw, ok := raw["flows"]
	if !ok {
		return nil, domain.Missing("flows")
	}
	items, err := schema.List(nil).Coerce(flowsRaw)
	if err != nil {
		return nil, domain.Mismatch("flows", "list", flowsRaw)
	}

	seen := make(map[string]int, len(items))
	doc.Flows = make([]domain.Flow, 0, len(items))
	for i, item := range items {
		flow, err := p.flow(i, item)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[flow.ID]; dup && !p.cfg.allowDuplicateIDs {
			return nil, domain.Invalid(fmt.Sprintf("flows[%d].id", i),
				fmt.Sprintf("duplicate flow id (first defined at flows[%d])", first), flow.ID)
		} else if !dup {
			seen[flow.ID] = i
		}
		doc.Flows = append(doc.Flows, *flow)
	}

	return doc, nil
}

func (p *parser) meta(raw map[string]any) (domain.Meta, error) {
	meta := domain.Meta{DefaultDelaySeconds: domain.DefaultDelaySeconds}
	m, present, err := optionalMap(raw, "meta", "meta")
	if err != nil || !present {
		return meta, err
	}
	if meta.Name, _, err = optionalString(m, "name", "meta.name"); err != nil {
		return meta, err
	}
	if meta.CreatedUTC, _, err = optionalString(m, "created_utc", "meta.created_utc"); err != nil {
		return meta, err
	}
	delay, set, err := optionalFloat(m, "default_delay_s", "meta.default_delay_s")
	if err != nil {
		return meta, err
	}
	if set {
		if err := domain.NonNegative("meta.default_delay_s", delay); err != nil {
			return meta, err
		}
		meta.DefaultDelaySeconds = delay
	}
	return meta, nil
}

func (p *parser) global(raw map[string]any) (domain.GlobalConfig, error) {
	g := domain.GlobalConfig{Confidence: domain.DefaultConfidence, Grayscale: domain.DefaultGrayscale}
	m, present, err := optionalMap(raw, "global", "global")
	if err != nil || !present {
		return g, err
	}

	conf, set, err := optionalFloat(m, "confidence", "global.confidence")
	if err != nil {
		return g, err
	}
	if set {
		if conf <= 0 || conf > 1 {
			return g, domain.Invalid("global.confidence", "must be in (0, 1]", conf)
		}
		g.Confidence = conf
	}

	gray, set, err := optionalBool(m, "grayscale", "global.grayscale")
	if err != nil {
		return g, err
	}
	if set {
		g.Grayscale = gray
	}

	if edRaw, ok := m["_editor"]; ok && edRaw != nil {
		ed, err := decodeEditor(edRaw)
		if err != nil {
			return g, err
		}
		g.Editor = ed
	}
	return g, nil
}

// decodeEditor reads the recorder's metadata block. It is owned by the editor, so unknown keys are
// ignored; only the keys we consume are type checked.
func decodeEditor(raw any) (*domain.EditorSettings, error) {
	m, err := schema.Map().Coerce(raw)
	if err != nil {
		return nil, domain.Mismatch("global._editor", "mapping", raw)
	}

	var ed domain.EditorSettings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &ed,
		TagName:    "mapstructure",
		DecodeHook: wholeNumberHook,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build editor settings decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return nil, &domain.SpecError{Kind: domain.KindTypeMismatch, Path: "global._editor", Reason: err.Error()}
	}

	if ed.CaptureScreenW != nil && *ed.CaptureScreenW <= 0 {
		return nil, domain.Invalid("global._editor.capture_screen_w", "must be > 0", *ed.CaptureScreenW)
	}
	if ed.CaptureScreenH != nil && *ed.CaptureScreenH <= 0 {
		return nil, domain.Invalid("global._editor.capture_screen_h", "must be > 0", *ed.CaptureScreenH)
	}
	return &ed, nil
}

// wholeNumberHook routes int fields through schema.Int so fractional and out-of-range numbers
// fail instead of being truncated.
func wholeNumberHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if data == nil {
			return data, nil
		}
		return schema.Int().Coerce(data)
	}
	return data, nil
}

func (p *parser) flow(index int, raw any) (*domain.Flow, error) {
	where := fmt.Sprintf("flows[%d]", index)
	m, err := schema.Map().Coerce(raw)
	if err != nil {
		return nil, domain.Mismatch(where, "mapping", raw)
	}

	idRaw, ok := m["id"]
	if !ok {
		return nil, domain.Missing(where + ".id")
	}
	id, err := schema.String().Coerce(idRaw)
	if err != nil {
		return nil, domain.Mismatch(where+".id", "string", idRaw)
	}
	if id == "" {
		return nil, domain.Invalid(where+".id", "must not be empty", id)
	}

	// From here on diagnostics use the flow id, which is what users recognise.
	where = domain.FlowPath(id)
	flow := &domain.Flow{ID: id, Title: id}

	title, set, err := optionalString(m, "title", where+".title")
	if err != nil {
		return nil, err
	}
	if set && title != "" {
		flow.Title = title
	}

	if flow.ShowDesktop, _, err = optionalBool(m, "show_desktop", where+".show_desktop"); err != nil {
		return nil, err
	}

	if anchorRaw, ok := m["anchor"]; ok && anchorRaw != nil {
		if flow.Anchor, err = p.anchor(where+".anchor", anchorRaw); err != nil {
			return nil, err
		}
	}

	stepsRaw, ok := m["steps"]
	if !ok || stepsRaw == nil {
		return flow, nil
	}
	items, err := schema.List(nil).Coerce(stepsRaw)
	if err != nil {
		return nil, domain.Mismatch(where+".steps", "list", stepsRaw)
	}
	flow.Steps = make([]domain.Step, 0, len(items))
	for i, item := range items {
		step, err := ParseStep(domain.StepPath(id, i+1), item)
		if err != nil {
			return nil, err
		}
		flow.Steps = append(flow.Steps, *step)
	}
	return flow, nil
}

func (p *parser) anchor(where string, raw any) (*domain.Anchor, error) {
	m, err := schema.Map().Coerce(raw)
	if err != nil {
		return nil, domain.Mismatch(where, "mapping", raw)
	}

	a := &domain.Anchor{}
	img, ok := m["image"]
	if !ok {
		return nil, domain.Missing(where + ".image")
	}
	if a.Image, err = schema.String().Coerce(img); err != nil {
		return nil, domain.Mismatch(where+".image", "string", img)
	}

	cii, ok := m["click_in_image"]
	if !ok {
		return nil, domain.Missing(where + ".click_in_image")
	}
	if a.ClickInImage, err = point(where+".click_in_image", cii); err != nil {
		return nil, err
	}

	if rectRaw, ok := m["capture_rect"]; ok && rectRaw != nil {
		rect, err := rectangle(where+".capture_rect", rectRaw)
		if err != nil {
			return nil, err
		}
		a.CaptureRect = &rect
	}

	if err := a.Validate(where); err != nil {
		return nil, err
	}
	return a, nil
}

// ParseStep converts one raw step mapping. path is the step's diagnostic prefix.
// Editor metadata (preview, _editor and anything else) is tolerated; payload fields are strict.
func ParseStep(path string, raw any) (*domain.Step, error) {
	m, err := schema.Map().Coerce(raw)
	if err != nil {
		return nil, domain.Mismatch(path, "mapping", raw)
	}

	step := &domain.Step{}
	actionRaw, ok := m["action"]
	if ok {
		action, err := schema.String().Coerce(actionRaw)
		if err != nil {
			return nil, &domain.SpecError{Kind: domain.KindUnsupportedAction, Path: path + ".action", Reason: "action must be a string", Value: actionRaw}
		}
		step.Action = domain.StepKind(action)
	}
	// Validate reports missing or unknown actions before any payload is read.
	if !step.Action.Valid() {
		return nil, step.Validate(path)
	}

	delay, set, err := optionalFloat(m, "delay_s", path+".delay_s")
	if err != nil {
		return nil, err
	}
	if set {
		step.DelaySeconds = &delay
	}
	if step.Preview, _, err = optionalString(m, "preview", path+".preview"); err != nil {
		return nil, err
	}

	switch step.Action {
	case domain.StepClick:
		step.Click, err = clickPayload(path, m)
	case domain.StepType:
		step.Type, err = typePayload(path, m)
	case domain.StepHotkey:
		step.Hotkey, err = hotkeyPayload(path, m)
	case domain.StepWait:
		step.Wait, err = waitPayload(path, m)
	}
	if err != nil {
		return nil, err
	}

	if err := step.Validate(path); err != nil {
		return nil, err
	}
	return step, nil
}

func clickPayload(path string, m map[string]any) (*domain.ClickStep, error) {
	offRaw, ok := m["offset"]
	if !ok {
		return nil, domain.Missing(path + ".offset")
	}
	off, err := point(path+".offset", offRaw)
	if err != nil {
		return nil, err
	}

	click := &domain.ClickStep{Offset: off, Button: domain.ButtonLeft, Clicks: 1}

	button, set, err := optionalString(m, "button", path+".button")
	if err != nil {
		return nil, err
	}
	if set && button != "" {
		click.Button = domain.Button(button)
	}

	clicks, set, err := optionalInt(m, "clicks", path+".clicks")
	if err != nil {
		return nil, err
	}
	if set {
		click.Clicks = clicks
	}

	interval, set, err := optionalFloat(m, "interval_s", path+".interval_s")
	if err != nil {
		return nil, err
	}
	if set {
		click.IntervalSeconds = &interval
	}
	return click, nil
}

func typePayload(path string, m map[string]any) (*domain.TypeStep, error) {
	textRaw, ok := m["text"]
	if !ok {
		return nil, domain.Missing(path + ".text")
	}
	text, err := schema.String().Coerce(textRaw)
	if err != nil {
		return nil, domain.Mismatch(path+".text", "string", textRaw)
	}
	ts := &domain.TypeStep{Text: text}

	interval, set, err := optionalFloat(m, "interval_s", path+".interval_s")
	if err != nil {
		return nil, err
	}
	if set {
		ts.IntervalSeconds = &interval
	}
	return ts, nil
}

func hotkeyPayload(path string, m map[string]any) (*domain.HotkeyStep, error) {
	keysRaw, ok := m["keys"]
	if !ok {
		return nil, domain.Missing(path + ".keys")
	}
	items, err := schema.List(schema.String()).Coerce(keysRaw)
	if err != nil {
		var elemErr *schema.ElementError
		if errors.As(err, &elemErr) {
			return nil, domain.Mismatch(fmt.Sprintf("%s.keys[%d]", path, elemErr.Index), "string", keysRaw)
		}
		return nil, domain.Mismatch(path+".keys", "list of strings", keysRaw)
	}
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.(string)
	}
	return &domain.HotkeyStep{Keys: keys}, nil
}

func waitPayload(path string, m map[string]any) (*domain.WaitStep, error) {
	secRaw, ok := m["seconds"]
	if !ok {
		return nil, domain.Missing(path + ".seconds")
	}
	sec, err := schema.Float().Coerce(secRaw)
	if err != nil {
		return nil, domain.Mismatch(path+".seconds", "number", secRaw)
	}
	if err := finite(path+".seconds", sec); err != nil {
		return nil, err
	}
	return &domain.WaitStep{Seconds: sec}, nil
}

// --- field helpers ---

func point(path string, raw any) (domain.Point, error) {
	m, err := schema.Map().Coerce(raw)
	if err != nil {
		return domain.Point{}, domain.Mismatch(path, "mapping with x and y", raw)
	}
	x, err := requiredInt(m, "x", path+".x")
	if err != nil {
		return domain.Point{}, err
	}
	y, err := requiredInt(m, "y", path+".y")
	if err != nil {
		return domain.Point{}, err
	}
	return domain.Point{X: x, Y: y}, nil
}

func rectangle(path string, raw any) (domain.Rect, error) {
	m, err := schema.Map().Coerce(raw)
	if err != nil {
		return domain.Rect{}, domain.Mismatch(path, "mapping with x, y, w and h", raw)
	}
	var r domain.Rect
	fields := []struct {
		key string
		dst *int
	}{{"x", &r.X}, {"y", &r.Y}, {"w", &r.W}, {"h", &r.H}}
	for _, f := range fields {
		if *f.dst, err = requiredInt(m, f.key, path+"."+f.key); err != nil {
			return domain.Rect{}, err
		}
	}
	return r, nil
}

func requiredInt(m map[string]any, key, path string) (int, error) {
	v, ok := m[key]
	if !ok {
		return 0, domain.Missing(path)
	}
	n, err := schema.Int().Coerce(v)
	if err != nil {
		return 0, domain.Mismatch(path, "int", v)
	}
	return n, nil
}

// The optional* helpers treat an absent key and an explicit null the same way.

func optionalInt(m map[string]any, key, path string) (int, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	n, err := schema.Int().Coerce(v)
	if err != nil {
		return 0, false, domain.Mismatch(path, "int", v)
	}
	return n, true, nil
}

func optionalFloat(m map[string]any, key, path string) (float64, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	f, err := schema.Float().Coerce(v)
	if err != nil {
		return 0, false, domain.Mismatch(path, "number", v)
	}
	if err := finite(path, f); err != nil {
		return 0, false, err
	}
	return f, true, nil
}

// finite rejects NaN and the infinities, which every range check would otherwise let through.
func finite(path string, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.Invalid(path, "must be a finite number", f)
	}
	return nil
}

func optionalString(m map[string]any, key, path string) (string, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, err := schema.String().Coerce(v)
	if err != nil {
		return "", false, domain.Mismatch(path, "string", v)
	}
	return s, true, nil
}

func optionalBool(m map[string]any, key, path string) (bool, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return false, false, nil
	}
	b, err := schema.Bool().Coerce(v)
	if err != nil {
		return false, false, domain.Mismatch(path, "bool", v)
	}
	return b, true, nil
}

func optionalMap(m map[string]any, key, path string) (map[string]any, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	out, err := schema.Map().Coerce(v)
	if err != nil {
		return nil, false, domain.Mismatch(path, "mapping", v)
	}
	return out, true, nil
}
