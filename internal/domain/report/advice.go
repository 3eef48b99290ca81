package report

// Element is a named group of advice items.
type Element struct {
	Name  string
	Items []string
}

// LineAdvice is the advice for a dominant body line.
type LineAdvice struct {
	Title    string
	Advice   string
	Elements []Element
}

// ScaleCategory groups scale advice for one wardrobe area.
type ScaleCategory struct {
	Name    string
	Details []Element
}

// ScaleAdvice is the advice for a dominant scale.
type ScaleAdvice struct {
	Title       string
	Description string
	Note        string
	Categories  []ScaleCategory
}

// Fabrics describes fabric and pattern guidance for a body shape.
type Fabrics struct {
	Recommended   string
	AvoidIfLarger string
	Patterns      string
	Colors        string
}

// Clothing describes garment guidance for a body shape.
type Clothing struct {
	General   string
	Tops      string
	Necklines string
	Bottoms   string
	Dresses   string
	Styling   string
	Bras      string
}

// WeightGain describes how a shape tends to change with weight gain.
type WeightGain struct {
	Softened string
	Barrel   string
}

// ShapeAdvice is the styling advice for a body shape.
type ShapeAdvice struct {
	Description     string
	Examples        string
	Notes           string
	BalanceStrategy string
	Fabrics         *Fabrics
	Clothing        *Clothing
	Avoid           []string
	GobletSpecific  string
	WeightGain      *WeightGain
	BarrelSpecific  []string
}

var lineAdvice = map[string]LineAdvice{
	"straight": {
		Title:  "Straight",
		Advice: "Your features are defined by straight lines. Garments with crisp edges, structured tailoring and geometric detail echo your natural lines and look effortless on you.",
		Elements: []Element{
			{Name: "fabrics", Items: []string{"Crisp cottons, denim and gabardine", "Firm wools and structured knits", "Leather and other fabrics that hold a shape"}},
			{Name: "details", Items: []string{"Sharp lapels and notched collars", "Straight or angular pockets", "Pleats, top-stitching and seams in straight lines"}},
			{Name: "patterns", Items: []string{"Stripes, checks and plaids", "Geometric and angular prints"}},
			{Name: "accessories", Items: []string{"Angular frames and buckles", "Structured bags with defined corners"}},
		},
	},
	"curved": {
		Title:  "Curved",
		Advice: "Your features are defined by curved lines. Soft fabrics, draping and rounded detail repeat your natural lines and create an easy, harmonious look.",
		Elements: []Element{
			{Name: "fabrics", Items: []string{"Jersey, silk and crepe", "Soft knits and fluid viscose", "Fabrics that drape rather than stand away from the body"}},
			{Name: "details", Items: []string{"Rounded collars and scalloped edges", "Ruching, gathers and wrap fronts", "Curved seams and soft pleats"}},
			{Name: "patterns", Items: []string{"Florals and paisleys", "Swirls, spots and organic prints"}},
			{Name: "accessories", Items: []string{"Round or oval frames", "Soft, slouchy bags and rounded buckles"}},
		},
	},
	"combination": {
		Title:  "Combination",
		Advice: "You have a mix of straight and curved lines. You can balance structure with softness, for example a tailored jacket over a draped top, or a crisp shirt with a fluid skirt.",
		Elements: []Element{
			{Name: "fabrics", Items: []string{"Medium-weight fabrics with some body and some drape", "Ponte, soft denim and fine wool"}},
			{Name: "details", Items: []string{"Softly tailored shapes", "Collars with a slight curve", "Mix one structured piece with one fluid piece"}},
			{Name: "patterns", Items: []string{"Abstract prints that mix curves and angles", "Softened geometrics"}},
		},
	},
}

var scaleAdvice = map[string]ScaleAdvice{
	"small": {
		Title:       "Small Scale",
		Description: "Your frame and features are delicate. Keep prints, accessories and details in proportion so they complement you rather than overwhelm you.",
		Note:        "Scale is about proportion, not height or size.",
		Categories: []ScaleCategory{
			{Name: "prints", Details: []Element{
				{Name: "size", Items: []string{"Small to medium motifs", "Fine stripes and narrow checks"}},
				{Name: "spacing", Items: []string{"Closely spaced patterns"}},
			}},
			{Name: "accessories", Details: []Element{
				{Name: "jewellery", Items: []string{"Fine chains", "Small studs and delicate pendants"}},
				{Name: "bags", Items: []string{"Small to medium bags with slim straps"}},
			}},
			{Name: "details", Details: []Element{
				{Name: "buttons", Items: []string{"Small buttons and slim belts"}},
			}},
		},
	},
	"medium": {
		Title:       "Medium Scale",
		Description: "Your frame and features are balanced. You can wear a wide range of medium-sized prints and accessories and can move up or down in scale for effect.",
		Categories: []ScaleCategory{
			{Name: "prints", Details: []Element{
				{Name: "size", Items: []string{"Medium motifs", "Regular stripes and checks"}},
			}},
			{Name: "accessories", Details: []Element{
				{Name: "jewellery", Items: []string{"Medium pendants and hoops"}},
				{Name: "bags", Items: []string{"Medium bags and belts of moderate width"}},
			}},
		},
	},
	"large": {
		Title:       "Large Scale",
		Description: "Your frame and features are strong. Bold prints and statement accessories match your presence, while very small details can get lost.",
		Note:        "Scale is about proportion, not height or size.",
		Categories: []ScaleCategory{
			{Name: "prints", Details: []Element{
				{Name: "size", Items: []string{"Large motifs and bold florals", "Wide stripes and oversized checks"}},
				{Name: "spacing", Items: []string{"Widely spaced patterns"}},
			}},
			{Name: "accessories", Details: []Element{
				{Name: "jewellery", Items: []string{"Chunky chains", "Statement earrings and cuffs"}},
				{Name: "bags", Items: []string{"Large totes and wide belts"}},
			}},
			{Name: "details", Details: []Element{
				{Name: "buttons", Items: []string{"Large buttons", "Generous collars and lapels"}},
			}},
		},
	},
}

var shapeAdvice = map[string]ShapeAdvice{
	"pear": {
		Description:     "Your hips are wider than your shoulders and bust, with a defined waist.",
		Examples:        "Shoulders narrower than hips; weight tends to settle on hips and thighs.",
		BalanceStrategy: "Draw the eye upward and add width or detail at the shoulders while keeping the lower half simple and streamlined.",
		Fabrics: &Fabrics{
			Recommended:   "Structured fabrics on top, fluid fabrics below",
			AvoidIfLarger: "Clingy jersey and bulky tweeds on the hips",
			Patterns:      "Prints and colour on top; plain, darker bottoms",
			Colors:        "Lighter and brighter shades above the waist",
		},
		Clothing: &Clothing{
			Tops:      "Boat necks, puff or structured sleeves, detail at the shoulder",
			Necklines: "Wide and horizontal necklines such as boat and square",
			Bottoms:   "A-line skirts, bootcut and wide-leg trousers",
			Dresses:   "Fit-and-flare and A-line dresses",
		},
		Avoid: []string{"Hip pockets and embellishment at the hip", "Tapered trousers with a tight ankle", "Cropped jackets ending at the widest part of the hip"},
	},
	"invertedTriangle": {
		Description:     "Your shoulders or bust are wider than your hips.",
		Examples:        "Broad shoulders, straighter hips, often athletic.",
		BalanceStrategy: "Soften the shoulders and add volume or detail to the lower half.",
		Fabrics: &Fabrics{
			Recommended: "Soft, draping fabrics on top and fabrics with body below",
			Patterns:    "Plain tops; prints and detail on skirts and trousers",
			Colors:      "Darker shades above the waist, lighter below",
		},
		Clothing: &Clothing{
			Tops:      "Raglan sleeves and simple shoulder lines",
			Necklines: "V-necks and scoop necks",
			Bottoms:   "Wide-leg trousers, full and pleated skirts",
			Dresses:   "Dresses with a fuller skirt",
		},
		Avoid: []string{"Shoulder pads and puff sleeves", "Boat necks and wide collars", "Skinny trousers worn with a bulky top"},
	},
	"rectangle": {
		Description:     "Your shoulders and hips are similar in width with little waist definition.",
		Examples:        "A straight silhouette from shoulder to hip.",
		BalanceStrategy: "Either create the illusion of a waist or embrace the straight line with column shapes.",
		Clothing: &Clothing{
			General:   "Column dressing and layered lengths suit you",
			Tops:      "Peplums, wrap tops and belted shirts",
			Necklines: "Most necklines; sweetheart adds curve",
			Bottoms:   "Straight-leg trousers and pencil skirts",
			Dresses:   "Shift dresses or belted shirt dresses",
		},
		WeightGain: &WeightGain{
			Softened: "With weight gain the frame softens; keep structure in jackets and let fabrics skim rather than cling.",
			Barrel:   "Weight may settle around the middle; lengthen the torso and keep focus at the face and legs.",
		},
		BarrelSpecific: []string{"Open jackets and long cardigans worn unbuttoned", "Tunic lengths over slim trousers", "V-necks to lengthen the torso"},
	},
	"apple": {
		Description:     "You carry weight through the middle with slimmer arms and legs.",
		Examples:        "A fuller bust and midriff with a less defined waist.",
		Notes:           "Highlight your legs and neckline.",
		BalanceStrategy: "Lengthen the torso and draw attention to the face and legs.",
		Fabrics: &Fabrics{
			Recommended:   "Fabrics that skim the body such as matte jersey and crepe",
			AvoidIfLarger: "Stiff, boxy fabrics that add bulk",
			Patterns:      "Vertical patterns and prints placed away from the middle",
		},
		Clothing: &Clothing{
			Tops:      "Empire lines, tunics and wrap tops",
			Necklines: "Deep V-necks",
			Bottoms:   "Straight and slim trousers, knee-length skirts",
			Dresses:   "Empire-waist and wrap dresses",
			Bras:      "A supportive bra that lifts the bust lengthens the torso",
		},
		Avoid:          []string{"Tight waistbands and wide belts at the middle", "Cropped tops", "Horizontal detail across the midriff"},
		GobletSpecific: "If your shoulders are broad as well, keep shoulder lines simple and use open necklines.",
	},
	"hourglass": {
		Description:     "Your bust and hips are balanced with a clearly defined waist.",
		Examples:        "Shoulders and hips are similar in width with a narrow waist.",
		BalanceStrategy: "Follow your natural curves and define the waist.",
		Fabrics: &Fabrics{
			Recommended: "Fabrics with stretch and drape that follow the body",
			Patterns:    "Patterns that work with your curves such as wraps and diagonals",
		},
		Clothing: &Clothing{
			General:   "Fitted and belted shapes",
			Tops:      "Wrap tops and fitted knits",
			Necklines: "V-necks and sweetheart necklines",
			Bottoms:   "High-waisted trousers and pencil skirts",
			Dresses:   "Wrap dresses and bodycon styles",
			Styling:   "Belt jackets and coats at the waist",
		},
		Avoid: []string{"Boxy, shapeless garments", "Drop-waist dresses"},
	},
}

var shapeKeys = map[string]string{
	ShapePear:             "pear",
	ShapeInvertedTriangle: "invertedTriangle",
	ShapeStraight:         "rectangle",
	ShapeRoundApple:       "apple",
	ShapeHourglass:        "hourglass",
}

// LookupLine returns the advice for a dominant line key.
func LookupLine(key string) (LineAdvice, bool) {
	a, ok := lineAdvice[key]
	return a, ok
}

// LookupScale returns the advice for a dominant scale key.
func LookupScale(key string) (ScaleAdvice, bool) {
	a, ok := scaleAdvice[key]
	return a, ok
}

// ShapeKey maps a questionnaire body shape to its dataset key.
func ShapeKey(bodyShape string) (string, bool) {
	k, ok := shapeKeys[bodyShape]
	return k, ok
}

// LookupShape returns the advice for a dataset shape key.
func LookupShape(key string) (ShapeAdvice, bool) {
	a, ok := shapeAdvice[key]
	return a, ok
}
