package workflow

// Step paso del asistente. El orden es fijo: número y fecha, transporte,
// cliente, selección de artículos, cantidades y resumen.
type Step string

const (
	StepNumberAndDate Step = "NUMBER_AND_DATE"
	StepTransport     Step = "TRANSPORT"
	StepClient        Step = "CLIENT"
	StepItemSelection Step = "ITEM_SELECTION"
	StepQuantities    Step = "QUANTITIES"
	StepSummary       Step = "SUMMARY"
)

// stepOrder orden requerido de los pasos. El inicial es NumberAndDate y
// el terminal es Summary (única pantalla con acción de confirmación).
var stepOrder = []Step{
	StepNumberAndDate,
	StepTransport,
	StepClient,
	StepItemSelection,
	StepQuantities,
	StepSummary,
}

// Valid indica si el valor corresponde a un paso conocido.
func (s Step) Valid() bool {
	for _, st := range stepOrder {
		if st == s {
			return true
		}
	}
	return false
}

// Next devuelve el paso siguiente en el orden; ok=false en el terminal.
func (s Step) Next() (Step, bool) {
	for i, st := range stepOrder {
		if st == s && i+1 < len(stepOrder) {
			return stepOrder[i+1], true
		}
	}
	return "", false
}

// Steps devuelve el orden completo de pasos (copia).
func Steps() []Step {
	out := make([]Step, len(stepOrder))
	copy(out, stepOrder)
	return out
}
