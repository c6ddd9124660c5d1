package field

import "errors"

// Type tags the kind of control a field renders as.
type Type string

const (
	TypeText     Type = "text"
	TypeTextarea Type = "textarea"
	TypeDropdown Type = "dropdown"
	TypeCheckbox Type = "checkbox"
	TypeNumber   Type = "number"
	TypeRadio    Type = "radio"
	TypeDate     Type = "date"
	TypeTime     Type = "time"
	TypeColor    Type = "color"
	TypeRange    Type = "range"
)

// Widget is the semantic control governing a field's value constraints.
// Visual layout is decided elsewhere.
type Widget int

const (
	WidgetInput Widget = iota
	WidgetTextarea
	WidgetSelect
	WidgetCheckbox
)

// Spec is one entry of the type registry: how a field of this type is
// labelled, rendered and defaulted.
type Spec struct {
	Label       string
	Widget      Widget
	HasOptions  bool // only dropdown and radio carry an options list
	Placeholder string
	Default     any // bag value used before the user touches the field
}

var ErrUnknownFieldType = errors.New("unknown field type")

// registry is the single exhaustive mapping from type tag to behavior.
// Adding a type means adding one row here.
var registry = map[Type]Spec{
	TypeText:     {Label: "Single Line Text", Widget: WidgetInput, Default: ""},
	TypeTextarea: {Label: "Multi-line Text", Widget: WidgetTextarea, Default: ""},
	TypeDropdown: {Label: "Dropdown", Widget: WidgetSelect, HasOptions: true, Default: ""},
	TypeCheckbox: {Label: "Checkbox", Widget: WidgetCheckbox, Default: false},
	TypeNumber:   {Label: "Number", Widget: WidgetInput, Placeholder: "0", Default: ""},
	TypeRadio:    {Label: "Radio Button", Widget: WidgetSelect, HasOptions: true, Default: ""},
	TypeDate:     {Label: "Date Picker", Widget: WidgetInput, Placeholder: "2006-01-02", Default: ""},
	TypeTime:     {Label: "Time Picker", Widget: WidgetInput, Placeholder: "15:04", Default: ""},
	TypeColor:    {Label: "Color Picker", Widget: WidgetInput, Placeholder: "#000000", Default: ""},
	TypeRange:    {Label: "Range Slider", Widget: WidgetInput, Placeholder: "0-100", Default: "50"},
}

// typeOrder fixes the display order of the type picker.
var typeOrder = []Type{
	TypeText, TypeTextarea, TypeDropdown, TypeCheckbox, TypeNumber,
	TypeRadio, TypeDate, TypeTime, TypeColor, TypeRange,
}

// Lookup returns the registry entry for t, or ErrUnknownFieldType for a
// tag outside the closed enumeration.
func Lookup(t Type) (Spec, error) {
	spec, ok := registry[t]
	if !ok {
		return Spec{}, ErrUnknownFieldType
	}
	return spec, nil
}

// SpecFor returns the registry entry for t, degrading to the text entry
// for unknown tags. Unknown types must never surface to the user; they
// render as plain text inputs.
func SpecFor(t Type) Spec {
	spec, err := Lookup(t)
	if err != nil {
		return registry[TypeText]
	}
	return spec
}

// DefaultValue is the bag value for a field of type t before the user has
// entered anything.
func DefaultValue(t Type) any {
	return SpecFor(t).Default
}

// HasOptions reports whether fields of type t carry an options list.
func HasOptions(t Type) bool {
	return SpecFor(t).HasOptions
}

// Types returns the closed enumeration in picker order.
func Types() []Type {
	out := make([]Type, len(typeOrder))
	copy(out, typeOrder)
	return out
}
