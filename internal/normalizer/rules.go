package normalizer

import (
	"strings"

	"github.com/baasilali/2m-backend/pkg/types"
)

// RuleKind classifies a rewrite rule
type RuleKind string

const (
	KindWeapon   RuleKind = "weapon"
	KindWear     RuleKind = "wear"
	KindStatTrak RuleKind = "stattrak"
	KindSouvenir RuleKind = "souvenir"
	KindSpelling RuleKind = "spelling"
)

// Rule rewrites a whole-token phrase. From and To are lower-case and
// single-spaced.
type Rule struct {
	From string
	To   string
	Kind RuleKind
}

// Canonical marker tokens
const (
	StatTrakToken = "stattrak"
	SouvenirToken = "souvenir"
)

// weaponAliases maps shorthand to the lower-case canonical weapon name.
// Canonical names themselves are added from the weapon table.
var weaponAliases = map[string]string{
	"ak":         "ak-47",
	"ak47":       "ak-47",
	"ak 47":      "ak-47",
	"m4":         "m4a4",
	"m4a1":       "m4a1-s",
	"m4a1s":      "m4a1-s",
	"m4a1 s":     "m4a1-s",
	"deagle":     "desert eagle",
	"eagle":      "desert eagle",
	"glock":      "glock-18",
	"glock18":    "glock-18",
	"usp":        "usp-s",
	"usps":       "usp-s",
	"five seven": "five-seven",
	"fiveseven":  "five-seven",
	"cz":         "cz75-auto",
	"cz75":       "cz75-auto",
	"cz75 auto":  "cz75-auto",
	"tec9":       "tec-9",
	"tec 9":      "tec-9",
	"berettas":   "dual berettas",
	"duals":      "dual berettas",
	"r8":         "r8 revolver",
	"revolver":   "r8 revolver",
	"zeus":       "zeus x27",
	"mac10":      "mac-10",
	"mac 10":     "mac-10",
	"mp5":        "mp5-sd",
	"mp5sd":      "mp5-sd",
	"ump":        "ump-45",
	"ump45":      "ump-45",
	"bizon":      "pp-bizon",
	"pp bizon":   "pp-bizon",
	"galil":      "galil ar",
	"famas":      "famas",
	"sg":         "sg 553",
	"sg553":      "sg 553",
	"krieg":      "sg 553",
	"ssg":        "ssg 08",
	"ssg08":      "ssg 08",
	"scout":      "ssg 08",
	"scar":       "scar-20",
	"scar20":     "scar-20",
	"g3":         "g3sg1",
	"mag7":       "mag-7",
	"sawedoff":   "sawed-off",
	"sawed off":  "sawed-off",
	"xm":         "xm1014",
	"kara":       "karambit",
	"m9":         "m9 bayonet",
	"butterfly":  "butterfly knife",
	"bfk":        "butterfly knife",
	"bowie":      "bowie knife",
	"falchion":   "falchion knife",
	"flip":       "flip knife",
	"gut":        "gut knife",
	"huntsman":   "huntsman knife",
	"kukri":      "kukri knife",
	"navaja":     "navaja knife",
	"nomad":      "nomad knife",
	"paracord":   "paracord knife",
	"daggers":    "shadow daggers",
	"dagger":     "shadow daggers",
	"skeleton":   "skeleton knife",
	"stiletto":   "stiletto knife",
	"talon":      "talon knife",
	"ursus":      "ursus knife",
	"knives":     "knife",
	"glove":      "gloves",
	"wraps":      "hand wraps",
}

var wearAliases = map[string]string{
	"fn":             "factory new",
	"factory-new":    "factory new",
	"mw":             "minimal wear",
	"minimal-wear":   "minimal wear",
	"ft":             "field-tested",
	"field tested":   "field-tested",
	"ww":             "well-worn",
	"well worn":      "well-worn",
	"bs":             "battle-scarred",
	"battle scarred": "battle-scarred",
}

var statTrakAliases = []string{"stattrak", "stat trak", "stat-trak", "stattrack", "stat track", "stat-track"}

var souvenirAliases = []string{"souvenir", "souv"}

var spellingFixes = map[string]string{
	"autorinic":     "autotronic",
	"autronic":      "autotronic",
	"autoronic":     "autotronic",
	"ultrvoilet":    "ultraviolet",
	"ultraviolt":    "ultraviolet",
	"doplar":        "doppler",
	"doplr":         "doppler",
	"dopler":        "doppler",
	"marbl":         "marble",
	"marbel":        "marble",
	"marblefade":    "marble fade",
	"tigertoot":     "tiger tooth",
	"tiger toot":    "tiger tooth",
	"tigertooth":    "tiger tooth",
	"casehardened":  "case hardened",
	"case-hardened": "case hardened",
	"crim web":      "crimson web",
	"crimsonweb":    "crimson web",
	"blu steel":     "blue steel",
	"damascus":      "damascus steel",
	"rust":          "rust coat",
	"gamma dopler":  "gamma doppler",
	"gamma-doppler": "gamma doppler",
	"asimov":        "asiimov",
	"asiimow":       "asiimov",
	"hyperbeast":    "hyper beast",
	"firesnake":     "fire serpent",
	"dragonlore":    "dragon lore",
	"redlin":        "redline",
}

// DefaultRules builds the rule table. Every rule output is also registered
// as an identity rule so normalizing twice changes nothing.
func DefaultRules() []Rule {
	var rules []Rule

	for _, w := range types.Weapons() {
		lower := strings.ToLower(string(w.Type))
		rules = append(rules, Rule{From: lower, To: lower, Kind: KindWeapon})
	}
	for from, to := range weaponAliases {
		rules = append(rules, Rule{From: from, To: to, Kind: KindWeapon})
	}

	for _, w := range types.Wears {
		lower := strings.ToLower(string(w))
		rules = append(rules, Rule{From: lower, To: lower, Kind: KindWear})
	}
	for from, to := range wearAliases {
		rules = append(rules, Rule{From: from, To: to, Kind: KindWear})
	}

	for _, from := range statTrakAliases {
		rules = append(rules, Rule{From: from, To: StatTrakToken, Kind: KindStatTrak})
	}
	for _, from := range souvenirAliases {
		rules = append(rules, Rule{From: from, To: SouvenirToken, Kind: KindSouvenir})
	}

	for from, to := range spellingFixes {
		rules = append(rules, Rule{From: from, To: to, Kind: KindSpelling})
		rules = append(rules, Rule{From: to, To: to, Kind: KindSpelling})
	}

	return rules
}
