package tools

import "strings"

// colombiaStates maps Colombian department names (with and without accents)
// to the two- and three-letter codes WooCommerce expects. Bogotá maps to
// Cundinamarca, which is how carrier plugins tariff it.
var colombiaStates = map[string]string{
	"AMAZONAS": "AMA", "ANTIOQUIA": "ANT", "ARAUCA": "ARA", "ATLÁNTICO": "ATL", "ATLANTICO": "ATL",
	"BOGOTÁ": "CUN", "BOGOTA": "CUN", "DC": "CUN", "BOLÍVAR": "BOL", "BOLIVAR": "BOL",
	"BOYACÁ": "BOY", "BOYACA": "BOY", "CALDAS": "CAL", "CAQUETÁ": "CAQ", "CAQUETA": "CAQ",
	"CASANARE": "CAS", "CAUCA": "CAU", "CESAR": "CES", "CHOCÓ": "CHO", "CHOCO": "CHO",
	"CÓRDOBA": "COR", "CORDOBA": "COR", "CUNDINAMARCA": "CUN", "GUAINÍA": "GUA", "GUAINIA": "GUA",
	"GUAVIARE": "GUV", "HUILA": "HUI", "LA GUAJIRA": "LAG", "MAGDALENA": "MAG", "META": "MET",
	"NARIÑO": "NAR", "NORTE DE SANTANDER": "NSA", "PUTUMAYO": "PUT", "QUINDÍO": "QUI", "QUINDIO": "QUI",
	"RISARALDA": "RIS", "SAN ANDRÉS": "SAP", "SANTANDER": "SAN", "SUCRE": "SUC", "TOLIMA": "TOL",
	"VALLE": "VAC", "VALLE DEL CAUCA": "VAC", "VAUPÉS": "VAU", "VAUPES": "VAU", "VICHADA": "VID",
}

// stateCode normalizes a department name to its code. Inputs that already
// look like codes (three characters or fewer) and unknown names pass through
// unchanged.
func stateCode(name string) string {
	if len(name) <= 3 {
		return name
	}
	if code, ok := colombiaStates[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return code
	}
	return name
}
