package numerology

// Tablas del cifrado de Pitágoras. Las tablas de vocales y consonantes se
// mantienen como datos independientes (no se derivan de la tabla general)
// para preservar los valores exactos del sistema original.

var ruLetters = map[rune]int{
	'а': 1, 'б': 2, 'в': 3, 'г': 4, 'д': 5, 'е': 6, 'ё': 7, 'ж': 8, 'з': 9,
	'и': 1, 'й': 2, 'к': 3, 'л': 4, 'м': 5, 'н': 6, 'о': 7, 'п': 8, 'р': 9,
	'с': 1, 'т': 2, 'у': 3, 'ф': 4, 'х': 5, 'ц': 6, 'ч': 7, 'ш': 8, 'щ': 9,
	'ъ': 1, 'ы': 2, 'ь': 3, 'э': 4, 'ю': 5, 'я': 6,
}

var enLetters = map[rune]int{
	'a': 1, 'b': 2, 'c': 3, 'd': 4, 'e': 5, 'f': 6, 'g': 7, 'h': 8, 'i': 9,
	'j': 1, 'k': 2, 'l': 3, 'm': 4, 'n': 5, 'o': 6, 'p': 7, 'q': 8, 'r': 9,
	's': 1, 't': 2, 'u': 3, 'v': 4, 'w': 5, 'x': 6, 'y': 7, 'z': 8,
}

var ruVowels = map[rune]int{
	'а': 1, 'е': 6, 'ё': 7, 'и': 1, 'о': 7, 'у': 3, 'ы': 2, 'э': 4, 'ю': 5, 'я': 6,
}

var enVowels = map[rune]int{
	'a': 1, 'e': 5, 'i': 9, 'o': 6, 'u': 3, 'y': 7,
}

var ruConsonants = map[rune]int{
	'б': 2, 'в': 3, 'г': 4, 'д': 5, 'ж': 8, 'з': 9,
	'й': 2, 'к': 3, 'л': 4, 'м': 5, 'н': 6, 'п': 8, 'р': 9,
	'с': 1, 'т': 2, 'ф': 4, 'х': 5, 'ц': 6, 'ч': 7, 'ш': 8, 'щ': 9,
	'ъ': 1, 'ь': 3,
}

var enConsonants = map[rune]int{
	'b': 2, 'c': 3, 'd': 4, 'f': 6, 'g': 7, 'h': 8,
	'j': 1, 'k': 2, 'l': 3, 'm': 4, 'n': 5, 'p': 7, 'q': 8, 'r': 9,
	's': 1, 't': 2, 'v': 4, 'w': 5, 'x': 6, 'z': 8,
}

// letterValue busca el valor de una runa en las tablas cirílica y latina,
// en ese orden. Los caracteres sin valor (dígitos, signos, espacios) no
// aportan nada a las sumas.
func letterValue(r rune, ru, en map[rune]int) (int, bool) {
	if v, ok := ru[r]; ok {
		return v, true
	}
	if v, ok := en[r]; ok {
		return v, true
	}
	return 0, false
}
