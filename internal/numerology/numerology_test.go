package numerology

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestReduce(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 0},
		{1, 1},
		{9, 9},
		{10, 1},
		{11, 2},
		{22, 4},
		{33, 6},
		{28, 1},
		{1990, 1},
		{999999999, 9},
	}
	for _, tt := range tests {
		if got := Reduce(tt.in); got != tt.want {
			t.Fatalf("Reduce(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	// Propiedad: el resultado siempre queda en [1,9] para entradas positivas.
	for n := 1; n <= 500; n++ {
		got := Reduce(n)
		if got < 1 || got > 9 {
			t.Fatalf("Reduce(%d) = %d fuera de [1,9]", n, got)
		}
		if n <= 9 && got != n {
			t.Fatalf("Reduce(%d) debería ser identidad, got %d", n, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1990-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Day != 1 || d.Month != 1 || d.Year != 1990 {
		t.Fatalf("unexpected date: %+v", d)
	}
	if d.ISO() != "1990-01-01" {
		t.Fatalf("ISO() = %q", d.ISO())
	}

	for _, bad := range []string{"", "01.01.1990", "1990-13-01", "1990-02-30", "not-a-date"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDate(%q) = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestLifePath(t *testing.T) {
	// 1990-01-01: reduce(1)+reduce(1)+reduce(1990)=1+1+1 -> 3.
	d, _ := ParseDate("1990-01-01")
	if got := LifePath(d); got != 3 {
		t.Fatalf("LifePath(1990-01-01) = %d, want 3", got)
	}
	// Reproducible: dos llamadas dan lo mismo.
	if LifePath(d) != LifePath(d) {
		t.Fatalf("LifePath no es determinista")
	}
}

func TestExpression_Cyrillic(t *testing.T) {
	// Иванов: и=1 в=3 а=1 н=6 о=7 в=3 -> 21 -> 3.
	if got := Expression("Иванов"); got != 3 {
		t.Fatalf("Expression(Иванов) = %d, want 3", got)
	}
	// Insensible a mayúsculas y espacios.
	if Expression("ИВАНОВ") != Expression("иванов") {
		t.Fatalf("Expression depende de mayúsculas")
	}
	if Expression("Ива нов!") != Expression("Иванов") {
		t.Fatalf("Expression depende de caracteres sin valor")
	}
}

func TestDestinyEqualsExpression(t *testing.T) {
	for _, fio := range []string{"Иванов Иван Иванович", "John Smith", "Anna-Мария", "", "12345"} {
		if Destiny(fio) != Expression(fio) {
			t.Fatalf("Destiny(%q) != Expression(%q)", fio, fio)
		}
	}
}

func TestSoulUrge_NoVowels(t *testing.T) {
	// Un nombre sin vocales suma 0 y se queda en 0: resultado degenerado
	// pero válido que los callers deben tolerar.
	if got := SoulUrge("bcdf"); got != 0 {
		t.Fatalf("SoulUrge(bcdf) = %d, want 0", got)
	}
	if got := SoulUrge("Анна"); got == 0 {
		t.Fatalf("SoulUrge(Анна) = 0, want > 0")
	}
}

func TestPersonality_MixedAlphabets(t *testing.T) {
	// Verificamos contra los valores tabulados directamente.
	if got := Personality("bcd"); got != Reduce(2+3+4) {
		t.Fatalf("Personality(bcd) = %d", got)
	}
	if got := Personality("привет"); got != Reduce(8+9+3+2) {
		// п=8 р=9 в=3 т=2; и,е son vocales.
		t.Fatalf("Personality(привет) = %d", got)
	}
}

func TestKarmicLessons(t *testing.T) {
	lessons := KarmicLessons("Иванов")
	// и=1 в=3 а=1 н=6 о=7: presentes {1,3,6,7}; faltan {2,4,5,8,9}.
	want := []int{2, 4, 5, 8, 9}
	if !reflect.DeepEqual(lessons, want) {
		t.Fatalf("KarmicLessons(Иванов) = %v, want %v", lessons, want)
	}

	// Nombre sin letras: faltan los nueve dígitos.
	if got := KarmicLessons("123 !!!"); len(got) != 9 {
		t.Fatalf("KarmicLessons sin letras = %v", got)
	}

	// Propiedad: lecciones y dígitos presentes son disjuntos y cubren 1..9.
	for _, fio := range []string{"Мария Петрова", "John Ronald Reuel Tolkien", "abc"} {
		present := make(map[int]bool)
		for _, r := range strings.ToLower(fio) {
			if v, ok := letterValue(r, ruLetters, enLetters); ok {
				present[v] = true
			}
		}
		seen := make(map[int]bool)
		for _, l := range KarmicLessons(fio) {
			if present[l] {
				t.Fatalf("lección %d aparece en el nombre %q", l, fio)
			}
			seen[l] = true
		}
		for n := 1; n <= 9; n++ {
			if !present[n] && !seen[n] {
				t.Fatalf("dígito %d ni presente ni lección para %q", n, fio)
			}
		}
	}
}

func TestPersonalYear(t *testing.T) {
	d, _ := ParseDate("1990-07-15")
	// 15 + 7 + 2025 = 2047 -> 13 -> 4.
	if got := PersonalYear(d, 2025); got != 4 {
		t.Fatalf("PersonalYear(2025) = %d, want 4", got)
	}
	// El mismo cumpleaños cambia con el año de referencia.
	if PersonalYear(d, 2025) == PersonalYear(d, 2026) {
		t.Fatalf("PersonalYear no varía con el año de referencia")
	}
}

func TestPythagorasMatrix(t *testing.T) {
	d, _ := ParseDate("1990-01-01")
	matrix := PythagorasMatrix(d)
	// "1" + "1" + "1990" = "111990": tres 1, dos 9 (el 0 no se cuenta).
	if matrix["1"] != 3 || matrix["9"] != 2 {
		t.Fatalf("matrix = %v", matrix)
	}
	if len(matrix) != 9 {
		t.Fatalf("matrix debe tener 9 entradas, tiene %d", len(matrix))
	}
	// La suma de ocurrencias es el largo de la cadena menos los ceros.
	total := 0
	for _, c := range matrix {
		total += c
	}
	digits := strconv.Itoa(d.Day) + strconv.Itoa(d.Month) + strconv.Itoa(d.Year)
	zeros := 0
	for _, r := range digits {
		if r == '0' {
			zeros++
		}
	}
	if total != len(digits)-zeros {
		t.Fatalf("suma de la matriz = %d, esperado %d", total, len(digits)-zeros)
	}
}

func TestCalculate(t *testing.T) {
	profile, err := Calculate("1990-01-01", "Иванов", 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.LifePath != 3 {
		t.Fatalf("LifePath = %d, want 3", profile.LifePath)
	}
	if profile.Expression != 3 || profile.Destiny != 3 {
		t.Fatalf("Expression = %d, Destiny = %d, want 3", profile.Expression, profile.Destiny)
	}
	if profile.BirthData.Date != "1990-01-01" || profile.BirthData.Year != 1990 {
		t.Fatalf("BirthData = %+v", profile.BirthData)
	}
	if profile.FIO != "Иванов" {
		t.Fatalf("FIO = %q", profile.FIO)
	}

	if _, err := Calculate("31.12.1990", "Иванов", 2025); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("fecha localizada debería fallar, got %v", err)
	}
}

func TestProfileJSONRoundTrip(t *testing.T) {
	profile, err := Calculate("1984-11-23", "Мария Ивановна Петрова", 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(profile)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Claves del contrato externo.
	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &asMap); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	for _, key := range []string{"life_path", "expression", "soul_urge", "personality", "destiny", "karmic_lessons", "personal_year", "pythagoras_matrix", "birth_data", "fio"} {
		if _, ok := asMap[key]; !ok {
			t.Fatalf("falta la clave %q en el JSON", key)
		}
	}

	var back Profile
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(profile, back) {
		t.Fatalf("round trip con pérdida:\n%+v\n%+v", profile, back)
	}
}
