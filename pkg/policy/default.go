package policy

// Default returns the fashion policy tuned for the Fashionpedia label set.
func Default() *Policy {
	return &Policy{
		// bottoms share the top tier with uppers so one of each survives ties
		priority: map[string]int{
			LabelCoat: 5, LabelJacket: 5, LabelDress: 5,
			LabelVest: 4, LabelCardigan: 4, LabelSweater: 4,
			LabelShirt: 4, LabelTop: 4,
			LabelPants: 4, LabelSkirt: 4, LabelShorts: 4,
			LabelJumpsuit: 0, LabelCape: 0,
			LabelShoe: 3, LabelBag: 3,
			LabelGlasses: 2, LabelHat: 2,
			LabelHeadband: 1, LabelScarf: 1,
		},
		groups: map[Group]map[string]struct{}{
			GroupOuterwear:   set(LabelCoat, LabelJacket, LabelDress, LabelCape, LabelVest),
			GroupAccessories: set(LabelShoe, LabelBag, LabelGlasses),
			GroupUpperBody:   set(LabelShirt, LabelTop, LabelSweater, LabelCardigan),
			GroupLowerBody:   set(LabelPants, LabelShorts, LabelSkirt),
			GroupHeadwear:    set(LabelHat, LabelHeadband),
			GroupHeadContext: set(LabelShirt, LabelTop, LabelSweater, LabelCoat, LabelJacket, LabelDress),
			GroupLongOuter:   set(LabelCoat, LabelJacket, LabelDress),
			GroupCoatLike:    set(LabelCoat, LabelJacket),
		},
		merge: MergeThresholds{
			IoU:                0.35,
			Overlap:            0.60,
			CenterDistFraction: 0.30,
		},
		categoryOrder: []string{
			CategoryBottoms, CategoryDresses, CategoryTops, CategoryOuterwear,
			CategoryShoes, CategoryBags, CategoryAccessories, CategoryHeadwear,
		},
		categoryKeywords: map[string][]string{
			CategoryDresses: {
				"dress", "gown", "jumpsuit", "romper", "one-piece", "one piece",
				"bodysuit", "maxi dress", "midi dress", "mini dress", "evening dress",
				"cocktail dress", "slip dress",
			},
			CategoryTops: {
				"top", "shirt", "t-shirt", "tee", "tank", "blouse", "polo", "sweater",
				"hoodie", "crewneck", "jumper", "camisole", "cardigan", "tunic",
				"long sleeve",
			},
			CategoryBottoms: {
				"jeans", "pants", "trouser", "shorts", "skirt", "leggings", "cargo",
				"chino", "culotte", "sweatpants", "jogger", "denim", "slip skirt",
			},
			CategoryOuterwear: {
				"coat", "jacket", "blazer", "vest", "trench", "puffer", "windbreaker",
				"parka", "anorak", "raincoat",
			},
			CategoryShoes: {
				"shoe", "sneaker", "boot", "heel", "loafer", "flat", "sandal",
				"slipper", "moccasin", "trainer", "wedge", "platform", "flip-flop",
				"clog", "oxford", "derby", "running shoe", "tennis shoe", "high top",
				"low top", "slide",
			},
			CategoryBags: {
				"bag", "handbag", "tote", "crossbody", "backpack", "satchel", "clutch",
				"duffel", "wallet", "purse", "briefcase",
			},
			CategoryHeadwear: {
				"hat", "cap", "beanie", "beret", "visor", "bucket hat", "headband",
			},
			CategoryAccessories: {
				"scarf", "belt", "glasses", "sunglasses", "watch", "earring",
				"necklace", "bracelet", "ring", "tie", "bowtie", "pin", "brooch",
				"glove", "keychain", "wallet",
			},
		},
		brandHints: []BrandHint{
			{"nike", CategoryShoes}, {"adidas", CategoryShoes}, {"puma", CategoryShoes},
			{"vans", CategoryShoes}, {"converse", CategoryShoes}, {"new balance", CategoryShoes},
			{"reebok", CategoryShoes}, {"asics", CategoryShoes}, {"salomon", CategoryShoes},
			{"hoka", CategoryShoes}, {"crocs", CategoryShoes}, {"dr martens", CategoryShoes},
			{"timberland", CategoryShoes},
			{"coach", CategoryBags}, {"michael kors", CategoryBags}, {"kate spade", CategoryBags},
			{"tory burch", CategoryBags}, {"longchamp", CategoryBags}, {"rimowa", CategoryBags},
			{"samsonite", CategoryBags}, {"away", CategoryBags}, {"herschel", CategoryBags},
			{"zara", CategoryTops}, {"h&m", CategoryTops}, {"uniqlo", CategoryTops},
			{"asos", CategoryTops}, {"shein", CategoryTops}, {"fashion nova", CategoryTops},
			{"boohoo", CategoryTops},
			{"revolve", CategoryDresses}, {"princess polly", CategoryDresses},
			{"lulus", CategoryDresses}, {"prettylittlething", CategoryDresses},
			{"north face", CategoryOuterwear}, {"columbia", CategoryOuterwear},
			{"patagonia", CategoryOuterwear}, {"canada goose", CategoryOuterwear},
			{"moncler", CategoryOuterwear},
			{"ray-ban", CategoryAccessories}, {"oakley", CategoryAccessories},
			{"warby parker", CategoryAccessories}, {"pandora", CategoryAccessories},
			{"tiffany", CategoryAccessories}, {"cartier", CategoryAccessories},
			{"swarovski", CategoryAccessories},
		},
		stopWords: set(
			"the", "and", "with", "from", "shop", "buy", "store", "official",
			"for", "by", "men", "women", "kids", "unisex", "fashion", "style",
			"clothing", "apparel", "brand", "new", "sale", "discount", "collection",
			"edition",
		),
		relevanceBanned: []string{
			"texture", "pattern", "drawing", "illustration", "clipart", "mockup",
			"template", "icon", "logo", "vector", "stock photo", "hanger", "material",
			"silhouette", "outline", "preset", "filter", "lightroom", "photoshop",
			"digital download", "tutorial", "guide", "lesson", "manual", "holder",
			"stand", "tripod", "mount", "case", "charger", "adapter", "cable",
			"keyboard", "mouse", "phone", "tablet", "shoelace",
		},
		garmentKeywords: []string{
			"dress", "top", "shirt", "t-shirt", "pants", "jeans", "skirt", "coat",
			"jacket", "sweater", "hoodie", "bag", "handbag", "backpack", "tote",
			"sandal", "boot", "shoe", "sneaker", "heel", "glasses", "sunglasses",
			"hat", "cap", "scarf", "outfit", "clothing", "apparel", "fashion",
		},
		styleHints: []string{"silk", "satin", "lace", "bias", "midi", "maxi", "slip", "trim"},
		hintBannedTerms: []string{
			"texture", "pattern", "drawing", "clipart", "illustration",
			"lace", "shoelace", "buttons", "fabric", "cloth", "hanger",
			"cartoon", "design template", "icon", "logo", "silhouette",
			"vector", "png", "mockup", "stencil", "svg", "ai generated",
		},
		labelKeywords: map[string][]string{
			LabelShoe:    {"shoe", "sneaker", "boot", "heel", "heels", "sandal", "footwear", "loafer", "trainer"},
			LabelDress:   {"dress", "gown", "outfit"},
			LabelPants:   {"pants", "trousers", "jeans", "slacks"},
			LabelSkirt:   {"skirt"},
			LabelShorts:  {"shorts"},
			LabelCoat:    {"coat", "jacket", "outerwear", "parka", "trench"},
			LabelJacket:  {"jacket", "blazer"},
			LabelTop:     {"t-shirt", "tee", "top", "sweatshirt", "hoodie"},
			LabelShirt:   {"shirt", "blouse", "button-down"},
			LabelSweater: {"sweater", "knit", "pullover", "cardigan"},
			LabelBag:     {"bag", "purse", "handbag", "tote", "wallet", "backpack", "crossbody"},
			LabelGlasses: {"glasses", "sunglasses", "eyewear"},
			LabelHat:     {"hat", "beanie", "cap", "beret", "bucket hat"},
		},
	}
}
