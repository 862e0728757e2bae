// Package weather provides the value objects of the weather monitor: the monitored Place,
// current Conditions, the Forecast and the agronomic Alerts derived from them.
//
// Alert thresholds:
//   - precipitation probability of 60% or more: avoid irrigation
//   - temperature below 8°C: frost risk
//   - temperature above 32°C: heat stroke risk
package weather
