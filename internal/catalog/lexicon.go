package catalog

// Closed keyword tables for the bilingual (English/Filipino) order vocabulary.
// Both vocabularies are always active; there is no locale detection. Anything
// not in these tables is deliberately unrecognized, never silently defaulted.

// NumberWords maps English and Filipino cardinal words to their values.
// Digit forms are handled by the tokenizer and never go through this table.
var NumberWords = map[string]int{
	// English one..twenty
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
	// Filipino, including linker forms (isang = "one ...")
	"isa": 1, "isang": 1, "ung": 1,
	"dalawa": 2, "dalawang": 2,
	"tatlo": 3, "tatlong": 3,
	"apat": 4, "apatna": 4,
	"lima": 5, "limang": 5,
	"anim": 6,
	"pito": 7, "pitong": 7,
	"walo": 8, "walong": 8,
	"siyam": 9, "siyamna": 9,
	"sampu": 10, "sampung": 10,
}

// flavorWords maps single normalized tokens to a flavor.
var flavorWords = map[string]Flavor{
	"cheese": FlavorCheese, "cheesy": FlavorCheese, "keso": FlavorCheese,
	"sour": FlavorSourCream, "sc": FlavorSourCream,
	"bbq": FlavorBBQ, "barbeque": FlavorBBQ, "barbecue": FlavorBBQ,
	"original": FlavorOriginal, "orig": FlavorOriginal, "og": FlavorOriginal, "plain": FlavorOriginal,
}

// flavorBigrams maps two-token phrases to a flavor. Checked before single tokens.
var flavorBigrams = map[[2]string]Flavor{
	{"sour", "cream"}: FlavorSourCream,
}

// SizeWords maps size cue tokens to a size. "malaki"/"maliit" are the Filipino
// big/small cues customers use instead of tub/pouch.
var SizeWords = map[string]Size{
	"pouch": SizePouch, "pouches": SizePouch, "maliit": SizePouch,
	"tub": SizeTub, "tubs": SizeTub, "malaki": SizeTub,
}

// GramSizes is the complete gram-to-size table. Any gram value not present here
// must fail the mention rather than guess a size.
var GramSizes = map[int]Size{
	100: SizePouch,
	200: SizeTub,
}

// MatchFlavor reports the flavor starting at tokens[i], preferring the two-token
// phrase over a single word. width is the number of tokens consumed.
func MatchFlavor(tokens []string, i int) (f Flavor, width int, ok bool) {
	if i+1 < len(tokens) {
		if f, ok := flavorBigrams[[2]string{tokens[i], tokens[i+1]}]; ok {
			return f, 2, true
		}
	}
	if f, ok := flavorWords[tokens[i]]; ok {
		return f, 1, true
	}
	return "", 0, false
}

// Modifier keywords. "patanggal"/"tanggal" are the Filipino remove requests,
// "dagdag"/"pa-add" the add requests.
var (
	RemoveWords = map[string]bool{
		"patanggal": true, "tanggal": true, "remove": true, "cancel": true, "alisin": true,
	}
	AddWords = map[string]bool{
		"add": true, "pa-add": true, "padd": true, "dagdag": true, "plus": true,
	}
)
