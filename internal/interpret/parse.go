package interpret

import (
	"strings"

	"github.com/nnikochann/numero-tg/internal/domain"
)

const fallbackText = "Извините, не удалось получить интерпретацию."

// minMeaningfulLen: respuestas más cortas se tratan como vacías y se
// reemplazan por las secciones por defecto.
const minMeaningfulLen = 10

// resultFromText convierte una respuesta de texto plano en la estructura
// que esperan los generadores de reportes.
func resultFromText(reportType, text string) Result {
	text = strings.TrimSpace(text)
	switch reportType {
	case domain.ReportTypeMini:
		return Result{MiniReport: text}
	case domain.ReportTypeCompatibilityMini:
		return Result{CompatibilityMini: text}
	case domain.ReportTypeFull:
		return Result{FullReport: parseFullReport(text)}
	case domain.ReportTypeCompatibility:
		return Result{CompatibilityReport: parseCompatibilityReport(text)}
	default:
		return Result{Message: text}
	}
}

// parseFullReport arma las secciones del reporte completo. El texto íntegro
// va a la introducción; el resto de secciones conserva un texto por defecto
// hasta que el webhook entregue respuestas estructuradas.
func parseFullReport(text string) map[string]string {
	report := map[string]string{
		"introduction":                "Ваш персональный нумерологический анализ.",
		"life_path_interpretation":    "Интерпретация числа жизненного пути.",
		"expression_interpretation":   "Интерпретация числа выражения.",
		"soul_interpretation":         "Интерпретация числа души.",
		"personality_interpretation":  "Интерпретация числа личности.",
		"life_path_detailed":          "Подробный анализ числа жизненного пути.",
		"expression_detailed":         "Подробный анализ числа выражения.",
		"soul_detailed":               "Подробный анализ числа души.",
		"personality_detailed":        "Подробный анализ числа личности.",
		"forecast":                    "Прогноз на ближайшее время.",
		"recommendations":             "Рекомендации для вашего развития.",
	}
	if len(text) < minMeaningfulLen {
		text = fallbackText
	}
	report["introduction"] = text
	return report
}

// parseCompatibilityReport arma las secciones del reporte de compatibilidad.
func parseCompatibilityReport(text string) map[string]string {
	report := map[string]string{
		"intro":           "Анализ совместимости.",
		"strengths":       "Сильные стороны отношений.",
		"challenges":      "Возможные трудности.",
		"recommendations": "Рекомендации для улучшения отношений.",
	}
	if len(text) < minMeaningfulLen {
		text = fallbackText
	}
	report["intro"] = text
	return report
}
