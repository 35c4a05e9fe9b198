package entities

import "strconv"

// VariableGroup tells where an agronomic reading comes from.
type VariableGroup string

const (
	GroupCrop     VariableGroup = "crop"
	GroupClimate  VariableGroup = "climate"
	GroupSoil     VariableGroup = "soil"
	GroupNutrient VariableGroup = "nutrient"
	GroupTexture  VariableGroup = "texture"
)

// Variable is one input of the prediction model, i.e. one sensor or lab reading.
type Variable struct {
	Name     string        `json:"name"` // wire name sent to the prediction service
	Group    VariableGroup `json:"group"`
	Unit     string        `json:"unit,omitempty"`
	Min      float64       `json:"min"` // plausible range, only used by the simulator
	Max      float64       `json:"max"`
	Decimals int           `json:"decimals"`
}

// AgeVariable is the plant age in days; it gets its own pre-submit check.
const AgeVariable = "EDAD_EN_DIAS"

// MinAgeDays is the youngest plantation the model accepts.
const MinAgeDays = 30.0

// NumFields is the size of every FieldSet.
const NumFields = 25

// Variables is the fixed catalogue, in form/wire/export order.
var Variables = [NumFields]Variable{
	{Name: AgeVariable, Group: GroupCrop, Unit: "días", Min: MinAgeDays, Max: 1500, Decimals: 0},
	{Name: "TEMPERATURA_AMBIENTAL", Group: GroupClimate, Unit: "°C", Min: 15, Max: 32, Decimals: 1},
	{Name: "HUMEDAD_AMBIENTAL", Group: GroupClimate, Unit: "%", Min: 50, Max: 98, Decimals: 1},
	{Name: "HUMEDAD_SUELO", Group: GroupSoil, Unit: "%", Min: 10, Max: 60, Decimals: 1},
	{Name: "PRESION_ATMOSFERICA", Group: GroupClimate, Unit: "hPa", Min: 900, Max: 1013, Decimals: 1},
	{Name: "TEMPERATURA_SUELO", Group: GroupSoil, Unit: "°C", Min: 15, Max: 30, Decimals: 1},
	{Name: "INDICE_DE_LLUVIA", Group: GroupClimate, Unit: "mm", Min: 0, Max: 300, Decimals: 1},
	{Name: "PH", Group: GroupSoil, Min: 4.5, Max: 7.5, Decimals: 2},
	{Name: "CE", Group: GroupSoil, Unit: "dS/m", Min: 0.05, Max: 2, Decimals: 2},
	{Name: "MO", Group: GroupSoil, Unit: "%", Min: 1, Max: 8, Decimals: 2},
	{Name: "NH4", Group: GroupNutrient, Unit: "ppm", Min: 5, Max: 80, Decimals: 1},
	{Name: "P", Group: GroupNutrient, Unit: "ppm", Min: 2, Max: 60, Decimals: 1},
	{Name: "S", Group: GroupNutrient, Unit: "ppm", Min: 2, Max: 40, Decimals: 1},
	{Name: "K", Group: GroupNutrient, Unit: "cmol/kg", Min: 0.1, Max: 1.5, Decimals: 2},
	{Name: "Ca", Group: GroupNutrient, Unit: "cmol/kg", Min: 2, Max: 20, Decimals: 2},
	{Name: "Mg", Group: GroupNutrient, Unit: "cmol/kg", Min: 0.5, Max: 6, Decimals: 2},
	{Name: "Cu", Group: GroupNutrient, Unit: "ppm", Min: 1, Max: 20, Decimals: 1},
	{Name: "B", Group: GroupNutrient, Unit: "ppm", Min: 0.1, Max: 2, Decimals: 2},
	{Name: "Fe", Group: GroupNutrient, Unit: "ppm", Min: 20, Max: 400, Decimals: 1},
	{Name: "Zn", Group: GroupNutrient, Unit: "ppm", Min: 1, Max: 15, Decimals: 1},
	{Name: "Mn", Group: GroupNutrient, Unit: "ppm", Min: 2, Max: 80, Decimals: 1},
	{Name: "N_total", Group: GroupNutrient, Unit: "%", Min: 0.05, Max: 0.6, Decimals: 3},
	{Name: "ARENA", Group: GroupTexture, Unit: "%", Min: 10, Max: 70, Decimals: 1},
	{Name: "LIMO", Group: GroupTexture, Unit: "%", Min: 10, Max: 60, Decimals: 1},
	{Name: "ARCILLA", Group: GroupTexture, Unit: "%", Min: 5, Max: 50, Decimals: 1},
}

var variableIndex = func() map[string]int {
	m := make(map[string]int, NumFields)
	for i, v := range Variables {
		m[v.Name] = i
	}
	return m
}()

// IndexOf returns the position of a variable in the catalogue.
func IndexOf(name string) (int, bool) {
	i, ok := variableIndex[name]
	return i, ok
}

// FieldNames returns the variable names in catalogue order.
func FieldNames() []string {
	out := make([]string, 0, NumFields)
	for _, v := range Variables {
		out = append(out, v.Name)
	}
	return out
}

// Format renders x as form text with the variable's precision.
func (v Variable) Format(x float64) string {
	return strconv.FormatFloat(x, 'f', v.Decimals, 64)
}
