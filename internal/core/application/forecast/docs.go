// Package forecast keeps the weather picture for the monitored place.
//
// The Monitor holds the place, the last report and the last upstream error. A failed refresh
// leaves the previous report in place and announces WeatherFailed instead of WeatherUpdated.
package forecast
