package numerology

import "math"

// Etiquetas de dificultades en la pareja. Son texto de dominio que los
// reportes muestran tal cual.
const (
	ChallengeDifferentLifePaths      = "Разные жизненные пути"
	ChallengeDifferentEmotionalNeeds = "Разные эмоциональные потребности"
)

// challengeThreshold: una diferencia mayor a 5 en camino de vida o número
// del alma se reporta como dificultad.
const challengeThreshold = 5

// Pesos del puntaje total de compatibilidad.
const (
	weightLifePath     = 0.4
	weightEmotional    = 0.3
	weightIntellectual = 0.2
	weightPhysical     = 0.1
)

// Scores contiene los cuatro sub-puntajes y el total ponderado.
// Cada sub-puntaje es 10 − |diferencia|, sin recorte: con indicadores en
// [1,9] el rango efectivo es [2,10].
type Scores struct {
	LifePath     int     `json:"life_path"`
	Emotional    int     `json:"emotional"`
	Intellectual int     `json:"intellectual"`
	Physical     int     `json:"physical"`
	Total        float64 `json:"total"`
}

// CompatibilityResult es el resultado completo del cruce de dos perfiles.
type CompatibilityResult struct {
	Person1          Profile  `json:"person1"`
	Person2          Profile  `json:"person2"`
	Compatibility    Scores   `json:"compatibility"`
	KarmicConnection bool     `json:"karmic_connection"`
	Challenges       []string `json:"challenges"`
}

// Compatibility combina dos perfiles ya calculados. Es una función pura y
// simétrica: intercambiar los perfiles no cambia ningún puntaje.
func Compatibility(p1, p2 Profile) CompatibilityResult {
	lifePath := 10 - abs(p1.LifePath-p2.LifePath)
	emotional := 10 - abs(p1.SoulUrge-p2.SoulUrge)
	intellectual := 10 - abs(p1.Expression-p2.Expression)
	physical := 10 - abs(p1.Personality-p2.Personality)

	total := float64(lifePath)*weightLifePath +
		float64(emotional)*weightEmotional +
		float64(intellectual)*weightIntellectual +
		float64(physical)*weightPhysical

	challenges := make([]string, 0, 2)
	if abs(p1.LifePath-p2.LifePath) > challengeThreshold {
		challenges = append(challenges, ChallengeDifferentLifePaths)
	}
	if abs(p1.SoulUrge-p2.SoulUrge) > challengeThreshold {
		challenges = append(challenges, ChallengeDifferentEmotionalNeeds)
	}

	return CompatibilityResult{
		Person1: p1,
		Person2: p2,
		Compatibility: Scores{
			LifePath:     lifePath,
			Emotional:    emotional,
			Intellectual: intellectual,
			Physical:     physical,
			Total:        roundTo1(total),
		},
		KarmicConnection: p1.LifePath == p2.LifePath,
		Challenges:       challenges,
	}
}

// CalculateCompatibility calcula ambos perfiles de forma independiente y
// los combina. Cualquier fecha malformada corta el cálculo con ErrInvalidDate.
func CalculateCompatibility(birthdate1, fio1, birthdate2, fio2 string, refYear int) (CompatibilityResult, error) {
	p1, err := Calculate(birthdate1, fio1, refYear)
	if err != nil {
		return CompatibilityResult{}, err
	}
	p2, err := Calculate(birthdate2, fio2, refYear)
	if err != nil {
		return CompatibilityResult{}, err
	}
	return Compatibility(p1, p2), nil
}

// roundTo1 redondea a un decimal, mitades alejándose de cero.
func roundTo1(x float64) float64 {
	return math.Round(x*10) / 10
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
