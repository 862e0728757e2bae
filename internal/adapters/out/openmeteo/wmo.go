package openmeteo

// describe maps a WMO weather interpretation code to a condition group and a Spanish description.
func describe(code int) (main, description string) {
	switch code {
	case 0:
		return "Clear", "cielo despejado"
	case 1:
		return "Clouds", "mayormente despejado"
	case 2:
		return "Clouds", "parcialmente nublado"
	case 3:
		return "Clouds", "nublado"
	case 45, 48:
		return "Fog", "niebla"
	case 51, 53, 55, 56, 57:
		return "Drizzle", "llovizna"
	case 61, 63, 65:
		return "Rain", "lluvia"
	case 66, 67:
		return "Rain", "lluvia helada"
	case 71, 73, 75, 77:
		return "Snow", "nieve"
	case 80, 81, 82:
		return "Rain", "chubascos"
	case 85, 86:
		return "Snow", "chubascos de nieve"
	case 95:
		return "Thunderstorm", "tormenta"
	case 96, 99:
		return "Thunderstorm", "tormenta con granizo"
	default:
		return "Unknown", "desconocido"
	}
}
