package model

// Maps frontend event names to backend competition names. Slugs are stable URL
// segments, so the slug table is authoritative; the display-name table is a
// fallback for callers that only have the page title.
var competitionBySlug = map[string]string{
	"blind-typing":    "BlindTyping",
	"hack-your-way":   "HackYourWay",
	"bridge-building": "BridgeBuilding",
	"robo-race":       "RoboRace",
	"autocad":         "AutoCAD",
	"technical-mimic": "TechnicalMimic",
}

var competitionByName = map[string]string{
	"Blind Typing Competition":    "BlindTyping",
	"Hack Your Way Competition":   "HackYourWay",
	"Bridge Building Competition": "BridgeBuilding",
	"Robo Race Competition":       "RoboRace",
	"AutoCAD Competition":         "AutoCAD",
	"Technical Mimic Competition": "TechnicalMimic",
}

// MapEventToCompetition resolves the backend competition name for an event.
// Unknown events fall through to the raw display name; the backend may still
// accept it.
func MapEventToCompetition(eventName string, eventSlug string) string {
	if eventSlug != "" {
		if name, ok := competitionBySlug[eventSlug]; ok {
			return name
		}
	}
	if name, ok := competitionByName[eventName]; ok {
		return name
	}
	return eventName
}
