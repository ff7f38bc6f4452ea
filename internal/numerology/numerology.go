package numerology

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// isoLayout es el único formato de fecha que acepta el motor. La capa de
// diálogo convierte la entrada del usuario (DD.MM.YYYY) antes de llegar aquí.
const isoLayout = "2006-01-02"

// ErrInvalidDate indica que la fecha de nacimiento no es una fecha ISO válida.
// El error se propaga siempre; el motor nunca devuelve 0 como centinela.
var ErrInvalidDate = errors.New("invalid birthdate")

// Date es una fecha de calendario sin zona horaria.
type Date struct {
	Day   int
	Month int
	Year  int
}

// ParseDate interpreta una fecha en formato ISO YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Day: t.Day(), Month: int(t.Month()), Year: t.Year()}, nil
}

// ISO devuelve la fecha en formato YYYY-MM-DD.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// BirthData es la vista serializable de la fecha de nacimiento.
type BirthData struct {
	Date  string `json:"date"`
	Day   int    `json:"day"`
	Month int    `json:"month"`
	Year  int    `json:"year"`
}

// Profile reúne todos los indicadores numerológicos de una persona.
// Se construye completo en cada llamada y es inmutable para el caller.
type Profile struct {
	LifePath         int            `json:"life_path"`
	Expression       int            `json:"expression"`
	SoulUrge         int            `json:"soul_urge"`
	Personality      int            `json:"personality"`
	Destiny          int            `json:"destiny"`
	KarmicLessons    []int          `json:"karmic_lessons"`
	PersonalYear     int            `json:"personal_year"`
	PythagorasMatrix map[string]int `json:"pythagoras_matrix"`
	BirthData        BirthData      `json:"birth_data"`
	FIO              string         `json:"fio"`
}

// Reduce suma los dígitos decimales de n repetidamente hasta obtener un
// valor de un solo dígito. Para n en [1,9] devuelve n sin cambios; 0 queda
// en 0 (solo ocurre cuando un nombre no tiene letras con valor).
// No hay números maestros: 11, 22 y 33 se reducen como cualquier otro.
func Reduce(n int) int {
	for n > 9 {
		sum := 0
		for n > 0 {
			sum += n % 10
			n /= 10
		}
		n = sum
	}
	return n
}

// LifePath calcula el número del camino de vida: día, mes y año se reducen
// por separado y la suma se reduce otra vez.
func LifePath(d Date) int {
	return Reduce(Reduce(d.Day) + Reduce(d.Month) + Reduce(d.Year))
}

// Expression suma los valores de todas las letras del nombre y reduce.
func Expression(fio string) int {
	return Reduce(sumLetters(fio, ruLetters, enLetters))
}

// SoulUrge suma solo las vocales del nombre y reduce.
func SoulUrge(fio string) int {
	return Reduce(sumLetters(fio, ruVowels, enVowels))
}

// Personality suma solo las consonantes del nombre y reduce.
func Personality(fio string) int {
	return Reduce(sumLetters(fio, ruConsonants, enConsonants))
}

// Destiny es el mismo cálculo que Expression; se expone con nombre propio
// porque los reportes lo etiquetan por separado.
func Destiny(fio string) int {
	return Expression(fio)
}

// KarmicLessons devuelve, en orden ascendente, los dígitos 1-9 que no
// aparecen en el mapeo de letras del nombre.
func KarmicLessons(fio string) []int {
	counts := make(map[int]int, 9)
	for _, r := range strings.ToLower(fio) {
		if v, ok := letterValue(r, ruLetters, enLetters); ok {
			counts[v]++
		}
	}
	lessons := make([]int, 0, 9)
	for n := 1; n <= 9; n++ {
		if counts[n] == 0 {
			lessons = append(lessons, n)
		}
	}
	return lessons
}

// PersonalYear combina día y mes de nacimiento con un año de referencia.
// El año se recibe como parámetro explícito (normalmente time.Now().Year())
// para que el resultado sea reproducible en tests: el mismo cumpleaños da
// un valor distinto cada año calendario.
func PersonalYear(d Date, refYear int) int {
	return Reduce(d.Day + d.Month + refYear)
}

// PythagorasMatrix cuenta las ocurrencias de cada dígito 1-9 en la cadena
// día+mes+año (sin ceros a la izquierda ni separadores). El 0 no se cuenta.
func PythagorasMatrix(d Date) map[string]int {
	digits := strconv.Itoa(d.Day) + strconv.Itoa(d.Month) + strconv.Itoa(d.Year)
	matrix := make(map[string]int, 9)
	for n := 1; n <= 9; n++ {
		matrix[strconv.Itoa(n)] = strings.Count(digits, strconv.Itoa(n))
	}
	return matrix
}

// Calculate ejecuta el conjunto completo de cálculos para una fecha ISO y un
// nombre. refYear alimenta el año personal. Un nombre sin letras con valor
// es válido y produce sumas 0; una fecha malformada devuelve ErrInvalidDate.
func Calculate(birthdate, fio string, refYear int) (Profile, error) {
	d, err := ParseDate(birthdate)
	if err != nil {
		return Profile{}, err
	}
	return CalculateFromDate(d, fio, refYear), nil
}

// CalculateFromDate es la variante para callers que ya tienen la fecha parseada.
func CalculateFromDate(d Date, fio string, refYear int) Profile {
	return Profile{
		LifePath:         LifePath(d),
		Expression:       Expression(fio),
		SoulUrge:         SoulUrge(fio),
		Personality:      Personality(fio),
		Destiny:          Destiny(fio),
		KarmicLessons:    KarmicLessons(fio),
		PersonalYear:     PersonalYear(d, refYear),
		PythagorasMatrix: PythagorasMatrix(d),
		BirthData: BirthData{
			Date:  d.ISO(),
			Day:   d.Day,
			Month: d.Month,
			Year:  d.Year,
		},
		FIO: fio,
	}
}

func sumLetters(fio string, ru, en map[rune]int) int {
	total := 0
	for _, r := range strings.ToLower(fio) {
		if v, ok := letterValue(r, ru, en); ok {
			total += v
		}
	}
	return total
}
