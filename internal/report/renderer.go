package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nnikochann/numero-tg/internal/domain"
	"github.com/nnikochann/numero-tg/internal/numerology"
)

// Renderer escribe reportes de texto plano en disco y devuelve su ruta.
type Renderer struct {
	dir string
}

func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &Renderer{dir: dir}, nil
}

// RenderProfile genera el archivo de un reporte individual (mini o full).
func (r *Renderer) RenderProfile(user domain.User, profile numerology.Profile, sections map[string]string, reportType string) (string, error) {
	var b strings.Builder

	writeHeader(&b, "НУМЕРОЛОГИЧЕСКИЙ ОТЧЕТ", user.FIO, profile.BirthData.Date)

	writeSection(&b, "ВВЕДЕНИЕ", sections["introduction"])

	b.WriteString("КЛЮЧЕВЫЕ ЧИСЛА ВАШЕЙ СУДЬБЫ\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	writeNumber(&b, "Число жизненного пути", profile.LifePath, sections["life_path_interpretation"])
	writeNumber(&b, "Число выражения", profile.Expression, sections["expression_interpretation"])
	writeNumber(&b, "Число души", profile.SoulUrge, sections["soul_interpretation"])
	writeNumber(&b, "Число личности", profile.Personality, sections["personality_interpretation"])

	if reportType == domain.ReportTypeFull {
		b.WriteString("ПОДРОБНЫЙ АНАЛИЗ ЧИСЕЛ\n")
		b.WriteString(strings.Repeat("-", 40) + "\n")
		writeNumber(&b, "Число жизненного пути", profile.LifePath, sections["life_path_detailed"])
		writeNumber(&b, "Число выражения", profile.Expression, sections["expression_detailed"])
		writeNumber(&b, "Число души", profile.SoulUrge, sections["soul_detailed"])
		writeNumber(&b, "Число личности", profile.Personality, sections["personality_detailed"])

		writeSection(&b, "ПРОГНОЗ И РЕКОМЕНДАЦИИ", sections["forecast"]+"\n\nЛичные рекомендации:\n"+sections["recommendations"])
	}

	writeFooter(&b)

	return r.write(user.ID, reportType, b.String())
}

// RenderCompatibility genera el archivo de un reporte de compatibilidad.
func (r *Renderer) RenderCompatibility(user domain.User, result numerology.CompatibilityResult, sections map[string]string) (string, error) {
	var b strings.Builder

	writeHeader(&b, "ОТЧЕТ О НУМЕРОЛОГИЧЕСКОЙ СОВМЕСТИМОСТИ", user.FIO, result.Person1.BirthData.Date)

	writeSection(&b, "ВВЕДЕНИЕ", sections["intro"])

	b.WriteString("АНАЛИЗ СОВМЕСТИМОСТИ\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	b.WriteString(fmt.Sprintf("Партнеры: %s и %s\n", result.Person1.FIO, result.Person2.FIO))
	b.WriteString(fmt.Sprintf("Общая совместимость: %.1f из 10\n\n", result.Compatibility.Total))
	b.WriteString(fmt.Sprintf("Жизненные пути: %d\n", result.Compatibility.LifePath))
	b.WriteString(fmt.Sprintf("Эмоциональная: %d\n", result.Compatibility.Emotional))
	b.WriteString(fmt.Sprintf("Интеллектуальная: %d\n", result.Compatibility.Intellectual))
	b.WriteString(fmt.Sprintf("Физическая: %d\n\n", result.Compatibility.Physical))

	if result.KarmicConnection {
		b.WriteString("Между вами есть кармическая связь.\n\n")
	}
	if len(result.Challenges) > 0 {
		b.WriteString("Возможные трудности:\n")
		for _, ch := range result.Challenges {
			b.WriteString("- " + ch + "\n")
		}
		b.WriteString("\n")
	}

	writeSection(&b, "СИЛЬНЫЕ СТОРОНЫ ОТНОШЕНИЙ", sections["strengths"])
	writeSection(&b, "РЕКОМЕНДАЦИИ", sections["recommendations"])

	writeFooter(&b)

	return r.write(user.ID, domain.ReportTypeCompatibility, b.String())
}

func (r *Renderer) write(userID int64, reportType, content string) (string, error) {
	filename := fmt.Sprintf("%d_%s_%s.txt", userID, reportType, time.Now().Format("20060102_150405"))
	path := filepath.Join(r.dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func writeHeader(b *strings.Builder, title, fio, isoDate string) {
	line := strings.Repeat("=", 50)
	b.WriteString(line + "\n")
	b.WriteString(title + "\n")
	b.WriteString(line + "\n\n")
	if fio == "" {
		fio = "Пользователь"
	}
	b.WriteString("Отчет для: " + fio + "\n")
	b.WriteString("Дата рождения: " + formatDate(isoDate) + "\n")
	b.WriteString("Дата составления: " + time.Now().Format("02.01.2006") + "\n\n")
}

func writeSection(b *strings.Builder, title, body string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	b.WriteString(body + "\n\n")
}

func writeNumber(b *strings.Builder, label string, value int, interpretation string) {
	b.WriteString(fmt.Sprintf("%s: %d\n", label, value))
	b.WriteString(interpretation + "\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(strings.Repeat("=", 50) + "\n")
	b.WriteString(fmt.Sprintf("© ИИ-Нумеролог %d. Все права защищены.\n", time.Now().Year()))
	b.WriteString("Данный отчет сгенерирован с использованием искусственного интеллекта.\n")
	b.WriteString("Для получения обновлений и еженедельных прогнозов подпишитесь в Telegram-боте.\n")
}

// formatDate pasa una fecha ISO a la forma DD.MM.YYYY del usuario.
func formatDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02.01.2006")
}
