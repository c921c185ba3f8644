package pokeforge

// CardSortField selects the card list ordering.
type CardSortField string

const (
	SortByName    CardSortField = "Name"
	SortByNumber  CardSortField = "Number"
	SortByRarity  CardSortField = "Rarity"
	SortBySetName CardSortField = "SetName"
)

// SortOrder is the list sort direction.
type SortOrder string

const (
	Asc  SortOrder = "Asc"
	Desc SortOrder = "Desc"
)

// CardCondition grades the physical condition of an owned card.
type CardCondition string

const (
	NearMint         CardCondition = "NM"
	LightlyPlayed    CardCondition = "LP"
	ModeratelyPlayed CardCondition = "MP"
	HeavilyPlayed    CardCondition = "HP"
	Damaged          CardCondition = "DMG"
)

// CollectionType distinguishes collections from wishlists.
type CollectionType string

const (
	TypeCollection CollectionType = "Collection"
	TypeWishlist   CollectionType = "Wishlist"
	TypeFavorites  CollectionType = "Favorites"
)

// CollectionVisibility controls who can see a collection.
type CollectionVisibility string

const (
	Public  CollectionVisibility = "Public"
	Private CollectionVisibility = "Private"
)

// Cards

// CardSetInfo is the set summary embedded in a card detail.
type CardSetInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Slug    string `json:"slug,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// Card is a card as returned by list and search endpoints.
type Card struct {
	ID               string   `json:"id"`
	Name             string   `json:"name,omitempty"`
	Number           string   `json:"number,omitempty"`
	SetID            string   `json:"setId"`
	SetName          string   `json:"setName,omitempty"`
	Supertype        string   `json:"supertype,omitempty"`
	Subtypes         []string `json:"subtypes,omitempty"`
	Rarity           string   `json:"rarity,omitempty"`
	Types            []string `json:"types,omitempty"`
	ImageURLStandard string   `json:"imageUrlStandard,omitempty"`
	ImageURLHiRes    string   `json:"imageUrlHiRes,omitempty"`
	VariantTypeCode  string   `json:"variantTypeCode,omitempty"`
	VariantTypeName  string   `json:"variantTypeName,omitempty"`
	ArtistName       string   `json:"artistName,omitempty"`
}

// CardDetail is the full record for a single card. Attacks, abilities,
// weaknesses and resistances are server-serialized strings.
type CardDetail struct {
	ID               string       `json:"id"`
	Name             string       `json:"name,omitempty"`
	Number           string       `json:"number,omitempty"`
	Set              *CardSetInfo `json:"set,omitempty"`
	Supertype        string       `json:"supertype,omitempty"`
	Subtypes         []string     `json:"subtypes,omitempty"`
	Rarity           string       `json:"rarity,omitempty"`
	Types            []string     `json:"types,omitempty"`
	HP               *int         `json:"hp,omitempty"`
	EvolvesFrom      string       `json:"evolvesFrom,omitempty"`
	FlavorText       string       `json:"flavorText,omitempty"`
	ArtistName       string       `json:"artistName,omitempty"`
	ImageURLStandard string       `json:"imageUrlStandard,omitempty"`
	ImageURLHiRes    string       `json:"imageUrlHiRes,omitempty"`
	Attacks          string       `json:"attacks,omitempty"`
	Abilities        string       `json:"abilities,omitempty"`
	Weaknesses       string       `json:"weaknesses,omitempty"`
	Resistances      string       `json:"resistances,omitempty"`
	RetreatCost      *int         `json:"retreatCost,omitempty"`
	VariantTypeCode  string       `json:"variantTypeCode,omitempty"`
	VariantTypeName  string       `json:"variantTypeName,omitempty"`
}

// CardVariant is an alternate printing of a card.
type CardVariant struct {
	ID               string `json:"id"`
	Name             string `json:"name,omitempty"`
	Number           string `json:"number,omitempty"`
	Rarity           string `json:"rarity,omitempty"`
	VariantTypeCode  string `json:"variantTypeCode,omitempty"`
	VariantTypeName  string `json:"variantTypeName,omitempty"`
	ImageURLStandard string `json:"imageUrlStandard,omitempty"`
}

// CardFilterOptions lists the values accepted by card list filters.
type CardFilterOptions struct {
	Rarities   []string `json:"rarities,omitempty"`
	Supertypes []string `json:"supertypes,omitempty"`
	Subtypes   []string `json:"subtypes,omitempty"`
	Types      []string `json:"types,omitempty"`
}

// Sets and series

// SeriesInfo is the series summary embedded in a set detail.
type SeriesInfo struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// Set is a set as returned by the list endpoint.
type Set struct {
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	Slug        string     `json:"slug,omitempty"`
	SeriesID    string     `json:"seriesId"`
	SeriesName  string     `json:"seriesName,omitempty"`
	ReleaseDate *Timestamp `json:"releaseDate,omitempty"`
	TotalCards  int        `json:"totalCards"`
	LogoURL     string     `json:"logoUrl,omitempty"`
	SymbolURL   string     `json:"symbolUrl,omitempty"`
}

// SetDetail is the full record for a single set.
type SetDetail struct {
	ID           string      `json:"id"`
	Name         string      `json:"name,omitempty"`
	Slug         string      `json:"slug,omitempty"`
	Series       *SeriesInfo `json:"series,omitempty"`
	ReleaseDate  *Timestamp  `json:"releaseDate,omitempty"`
	TotalCards   int         `json:"totalCards"`
	PrintedTotal *int        `json:"printedTotal,omitempty"`
	LogoURL      string      `json:"logoUrl,omitempty"`
	SymbolURL    string      `json:"symbolUrl,omitempty"`
}

// Series is a group of sets. The list and detail shapes are identical.
type Series struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Slug       string `json:"slug,omitempty"`
	TotalSets  int    `json:"totalSets"`
	TotalCards int    `json:"totalCards"`
}

// Artists

type ArtistPreviewCard struct {
	ID               string `json:"id"`
	Name             string `json:"name,omitempty"`
	ImageURLStandard string `json:"imageUrlStandard,omitempty"`
}

// Artist summarizes an illustrator and how many of their cards the caller owns.
type Artist struct {
	Name           string              `json:"name,omitempty"`
	TotalCards     int                 `json:"totalCards"`
	CollectedCards int                 `json:"collectedCards"`
	PreviewCards   []ArtistPreviewCard `json:"previewCards,omitempty"`
}

// Blog

type BlogAuthor struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type BlogPostMedia struct {
	ID        string `json:"id"`
	MediaType string `json:"mediaType,omitempty"`
	URL       string `json:"url,omitempty"`
	Caption   string `json:"caption,omitempty"`
	SortOrder int    `json:"sortOrder"`
}

// BlogPost is a news post.
type BlogPost struct {
	ID            string          `json:"id"`
	ActorType     string          `json:"actorType,omitempty"`
	Author        *BlogAuthor     `json:"author,omitempty"`
	Title         string          `json:"title,omitempty"`
	Content       string          `json:"content,omitempty"`
	ContentType   string          `json:"contentType,omitempty"`
	Excerpt       string          `json:"excerpt,omitempty"`
	Category      string          `json:"category,omitempty"`
	IsPinned      bool            `json:"isPinned"`
	IsFeatured    bool            `json:"isFeatured"`
	PublishedAt   *Timestamp      `json:"publishedAt,omitempty"`
	LikesCount    int             `json:"likesCount"`
	CommentsCount int             `json:"commentsCount"`
	Media         []BlogPostMedia `json:"media,omitempty"`
}

// Favorites

// FavoriteCard is a card the caller has favorited.
type FavoriteCard struct {
	ID               string     `json:"id"`
	CardID           string     `json:"cardId"`
	Name             string     `json:"name,omitempty"`
	Number           string     `json:"number,omitempty"`
	SetName          string     `json:"setName,omitempty"`
	Rarity           string     `json:"rarity,omitempty"`
	ImageURLStandard string     `json:"imageUrlStandard,omitempty"`
	AddedAt          *Timestamp `json:"addedAt,omitempty"`
}

// Collections

// Collection is a collection as returned by the list endpoint.
type Collection struct {
	ID             string               `json:"id"`
	Name           string               `json:"name,omitempty"`
	CollectionType CollectionType       `json:"collectionType"`
	Visibility     CollectionVisibility `json:"visibility"`
	ItemCount      int                  `json:"itemCount"`
	TotalValue     *float64             `json:"totalValue,omitempty"`
	CreatedAt      *Timestamp           `json:"createdAt,omitempty"`
	UpdatedAt      *Timestamp           `json:"updatedAt,omitempty"`
}

// CollectionDetail is the full record for a single collection.
type CollectionDetail struct {
	ID             string               `json:"id"`
	Name           string               `json:"name,omitempty"`
	Description    string               `json:"description,omitempty"`
	CollectionType CollectionType       `json:"collectionType"`
	Visibility     CollectionVisibility `json:"visibility"`
	ItemCount      int                  `json:"itemCount"`
	UniqueCards    int                  `json:"uniqueCards"`
	TotalValue     *float64             `json:"totalValue,omitempty"`
	CreatedAt      *Timestamp           `json:"createdAt,omitempty"`
	UpdatedAt      *Timestamp           `json:"updatedAt,omitempty"`
}

type CollectionItemCard struct {
	ID               string `json:"id"`
	Name             string `json:"name,omitempty"`
	Number           string `json:"number,omitempty"`
	SetName          string `json:"setName,omitempty"`
	Rarity           string `json:"rarity,omitempty"`
	ImageURLStandard string `json:"imageUrlStandard,omitempty"`
}

// CollectionItem is one owned card entry inside a collection.
type CollectionItem struct {
	ID            string             `json:"id"`
	Card          CollectionItemCard `json:"card"`
	Quantity      int                `json:"quantity"`
	Condition     CardCondition      `json:"condition,omitempty"`
	Grade         string             `json:"grade,omitempty"`
	PurchasePrice *float64           `json:"purchasePrice,omitempty"`
	PurchaseDate  *Timestamp         `json:"purchaseDate,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	AddedAt       *Timestamp         `json:"addedAt,omitempty"`
}

// CreateCollectionRequest is the body of a collection create call.
// Empty CollectionType and Visibility default to Collection and Private.
type CreateCollectionRequest struct {
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	CollectionType CollectionType       `json:"collectionType"`
	Visibility     CollectionVisibility `json:"visibility"`
}

// UpdateCollectionRequest changes only the fields that are set.
type UpdateCollectionRequest struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	Visibility  *CollectionVisibility `json:"visibility,omitempty"`
}

// AddCollectionItemRequest adds a card to a collection. Quantity defaults to 1.
type AddCollectionItemRequest struct {
	CardID        string        `json:"cardId"`
	Quantity      int           `json:"quantity"`
	Condition     CardCondition `json:"condition,omitempty"`
	Grade         string        `json:"grade,omitempty"`
	PurchasePrice *float64      `json:"purchasePrice,omitempty"`
	PurchaseDate  *Timestamp    `json:"purchaseDate,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// UpdateCollectionItemRequest changes only the fields that are set.
type UpdateCollectionItemRequest struct {
	Quantity      *int           `json:"quantity,omitempty"`
	Condition     *CardCondition `json:"condition,omitempty"`
	Grade         *string        `json:"grade,omitempty"`
	PurchasePrice *float64       `json:"purchasePrice,omitempty"`
	PurchaseDate  *Timestamp     `json:"purchaseDate,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

// BulkItemError reports one rejected item of a bulk add.
type BulkItemError struct {
	Identifier string `json:"identifier,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BulkAddItemsResult summarizes a bulk add.
type BulkAddItemsResult struct {
	TotalProcessed int             `json:"totalProcessed"`
	Created        int             `json:"created"`
	Errors         []BulkItemError `json:"errors,omitempty"`
}
