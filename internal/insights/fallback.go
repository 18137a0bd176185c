package insights

// fallbackForAQI returns canned content for the AQI band. Used when no
// model is configured or the model call fails, so the endpoint always has
// something sensible to say.
func fallbackForAQI(aqi int) *Insights {
	switch {
	case aqi <= 50:
		return &Insights{
			Summary: "Air quality is good. Pollutant levels pose little or no risk, and it is a great time to be outdoors.",
			HealthRecommendations: []string{
				"No health precautions needed for any group",
				"Ideal conditions for outdoor exercise",
			},
			ContextualInsights: []string{
				"Pollutant concentrations are well below health-based thresholds",
			},
			ActionableTips: []string{
				"Open windows to ventilate your home",
				"Plan outdoor activities while conditions last",
			},
		}
	case aqi <= 100:
		return &Insights{
			Summary: "Air quality is acceptable. A small number of unusually sensitive people may notice mild effects during prolonged exertion.",
			HealthRecommendations: []string{
				"Most people can continue normal activities",
				"Unusually sensitive individuals should watch for symptoms during long outdoor workouts",
			},
			ContextualInsights: []string{
				"Pollutant levels are moderate and typical for urban areas",
			},
			ActionableTips: []string{
				"Prefer outdoor exercise in the morning when pollution is usually lower",
				"Keep an eye on the forecast if you are sensitive to air pollution",
			},
		}
	case aqi <= 150:
		return &Insights{
			Summary: "Air quality is unhealthy for sensitive groups. People with asthma, heart or lung disease, children and older adults may feel effects.",
			HealthRecommendations: []string{
				"Sensitive groups should reduce prolonged or heavy outdoor exertion",
				"Keep quick-relief medication at hand if you have asthma",
				"The general population is unlikely to be affected",
			},
			ContextualInsights: []string{
				"Pollutant levels have crossed the threshold where sensitive groups are at risk",
			},
			ActionableTips: []string{
				"Move long workouts indoors if you are in a sensitive group",
				"Close windows facing busy roads",
			},
		}
	case aqi <= 200:
		return &Insights{
			Summary: "Air quality is unhealthy. Everyone may begin to experience effects, and sensitive groups face more serious risks.",
			HealthRecommendations: []string{
				"Everyone should reduce prolonged or heavy outdoor exertion",
				"Sensitive groups should avoid outdoor activity",
				"Consider wearing a well-fitted mask outdoors",
			},
			ContextualInsights: []string{
				"Concentrations are high enough to affect healthy adults during exercise",
			},
			ActionableTips: []string{
				"Keep windows closed and run an air purifier if you have one",
				"Shift errands to times when pollution is lower",
			},
		}
	default:
		return &Insights{
			Summary: "Air quality is very unhealthy or hazardous. This is a health alert: everyone may experience serious effects.",
			HealthRecommendations: []string{
				"Everyone should avoid outdoor exertion",
				"Stay indoors with windows closed",
				"Wear an N95 or better respirator if you must go outside",
			},
			ContextualInsights: []string{
				"Pollution at this level affects the whole population, not just sensitive groups",
			},
			ActionableTips: []string{
				"Run air purifiers on high and seal gaps around doors",
				"Check on neighbors who are older or have respiratory conditions",
				"Follow local guidance and alerts",
			},
		}
	}
}
