package breathscore

// categoryFor names the score band.
func categoryFor(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 60:
		return "Moderate"
	case score >= 45:
		return "Unhealthy for Sensitive Groups"
	case score >= 30:
		return "Unhealthy"
	case score >= 15:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}

// maskFor recommends respiratory protection for the score band.
func maskFor(score int) string {
	switch {
	case score >= 75:
		return "No mask needed"
	case score >= 60:
		return "Cloth mask for sensitive individuals"
	case score >= 45:
		return "KN95 recommended for extended time outdoors"
	case score >= 30:
		return "N95 recommended outdoors"
	case score >= 15:
		return "N95 or P100 required outdoors"
	default:
		return "P100 required, stay indoors if possible"
	}
}

// ageGuidanceFor gives advice for children and older adults, who are more
// sensitive to poor air than the general population.
func ageGuidanceFor(score int) string {
	switch {
	case score >= 75:
		return "Safe for all age groups"
	case score >= 60:
		return "Children and older adults should take breaks during extended outdoor activity"
	case score >= 45:
		return "Children and older adults should limit prolonged outdoor exertion"
	default:
		return "Children and older adults should stay indoors"
	}
}

// outdoorActivityFor suggests an exercise intensity ceiling.
func outdoorActivityFor(score int) string {
	switch {
	case score >= 85:
		return "All outdoor activities are fine"
	case score >= 70:
		return "Normal outdoor activities are fine, pace long workouts"
	case score >= 55:
		return "Keep outdoor exercise light to moderate"
	case score >= 40:
		return "Move intense workouts indoors"
	default:
		return "Avoid outdoor exercise"
	}
}
