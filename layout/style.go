package layout

// Display enumerates layout models for a container. Only flex layout is
// implemented; the enum leaves room for a future block/grid model.
type Display int

const (
	DisplayFlex Display = iota
)

// FlexDirection is the main-axis orientation of a flex or stack container.
type FlexDirection int

const (
	Row FlexDirection = iota
	Column
)

// Justify defines how free space is distributed along the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// AlignItems defines cross-axis alignment, both per-line (AlignItems) and,
// for multi-line containers, how lines themselves pack (AlignContent).
type AlignItems int

const (
	AlignItemsStart AlignItems = iota
	AlignItemsCenter
	AlignItemsEnd
	AlignItemsStretch
)

// PositionType controls whether an item participates in normal flow.
type PositionType int

const (
	PosRelative PositionType = iota
	PosAbsolute
)

// Vector2 is a simple integer 2D offset, used for gaps.
type Vector2 struct{ X, Y int }

// ContainerStyle carries the CSS-flexbox-like properties of a Flex or
// Stack container. Width/Height of 0 means auto-size to content.
type ContainerStyle struct {
	Display       Display
	Direction     FlexDirection
	Padding       [4]int // top, right, bottom, left
	Gap           Vector2
	Justify       Justify
	AlignItems    AlignItems
	AlignContent  AlignItems
	Width, Height int
	MinWidth      int
	MaxWidth      int
	MinHeight     int
	MaxHeight     int
}

// ItemStyle carries the per-child layout properties within a container.
type ItemStyle struct {
	Margin     [4]int
	Width      int
	Height     int
	WidthPct   float64 // 'N%' width; resolved against the container's inner width
	FlexGrow   float64
	FlexShrink float64
	FlexBasis  int
	AlignSelf  *AlignItems

	Position PositionType
	Top      *int
	Right    *int
	Bottom   *int
	Left     *int
	// RelX/RelY apply a purely cosmetic offset after layout: it does not
	// influence sibling placement.
	RelX, RelY int

	ZIndex int

	IgnoreGapBefore bool
	KeepTogether    bool
	BreakBefore     bool
	BreakAfter      bool
}

func sum4(a [4]int) (t, r, b, l int) { return a[0], a[1], a[2], a[3] }
