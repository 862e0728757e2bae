package weather

import (
	"fmt"
	"strconv"
)

const (
	IrrigationThreshold = 60
	FrostThreshold      = 8.0
	HeatThreshold       = 32.0
)

type AlertKind string

const (
	AvoidIrrigation AlertKind = "avoid-irrigation"
	FrostRisk       AlertKind = "frost-risk"
	HeatStrokeRisk  AlertKind = "heat-stroke-risk"
)

// Alert is an agronomic recommendation shown next to the weather widget.
type Alert struct {
	Kind  AlertKind
	Text  string
	Badge string
}

// Alerts evaluates the thresholds against a report. The result is empty when nothing applies.
func Alerts(r Report) []Alert {
	var alerts []Alert

	pop := r.PrecipitationProbability()
	if pop >= IrrigationThreshold {
		alerts = append(alerts, Alert{
			Kind:  AvoidIrrigation,
			Text:  "Evite realizar riegos",
			Badge: fmt.Sprintf("POP %d%%", pop),
		})
	}

	temp := r.Current.Temperature
	badge := strconv.FormatFloat(temp, 'f', -1, 64) + "°C"
	if temp < FrostThreshold {
		alerts = append(alerts, Alert{Kind: FrostRisk, Text: "Riesgo de helada", Badge: badge})
	}
	if temp > HeatThreshold {
		alerts = append(alerts, Alert{Kind: HeatStrokeRisk, Text: "Riesgo de golpe de calor", Badge: badge})
	}

	return alerts
}
