package models

// SizeRow is one size variant of a product draft.
type SizeRow struct {
	EAN         string `json:"ean" validate:"required,max=255"`
	SizeID      string `json:"sizeId" validate:"required,max=255"`
	VariantSize string `json:"variantSize" validate:"required,max=255"`
}

// ProductDraft is the in-progress product listing form. It is never stored;
// it is shaped into a Submission when it is submitted.
type ProductDraft struct {
	ArticleType   string    `json:"articleType" validate:"max=255"`
	BrandCode     string    `json:"brandCode" validate:"max=255"`
	TargetGenders []string  `json:"targetGenders" validate:"len=1,dive,required"`
	TargetAge     []string  `json:"targetAge" validate:"len=1,dive,required"`
	ArticleID     string    `json:"articleId" validate:"required,number,max=255"`
	Name          string    `json:"name" validate:"required,max=255"`
	Size          string    `json:"size" validate:"required,max=255"`
	Length        string    `json:"length" validate:"max=255"`
	SeasonCode    string    `json:"seasonCode" validate:"max=255"`
	VariantID     string    `json:"variantId" validate:"required,number,max=255"`
	Description   string    `json:"description" validate:"max=255"`
	ColorCode     string    `json:"colorCode" validate:"required,max=255"`
	Secondary     string    `json:"secondary" validate:"max=255"`
	Ternary       string    `json:"ternary" validate:"max=255"`
	URL           []string  `json:"url" validate:"dive,required"`
	SupplierCode  string    `json:"supplierCode" validate:"max=255"`
	Sizes         []SizeRow `json:"sizes" validate:"min=1,dive"`
}

// MaterialShare is one entry of a material composition.
type MaterialShare struct {
	MaterialCode       string  `json:"material_code"`
	MaterialPercentage float64 `json:"material_percentage"`
}

// DefaultUpperMaterial is sent with every submission until the form grows a
// material editor.
var DefaultUpperMaterial = []MaterialShare{
	{MaterialCode: "li", MaterialPercentage: 97.5},
	{MaterialCode: "el", MaterialPercentage: 2.5},
}

// Media references one product image.
type Media struct {
	MediaPath    string `json:"media_path"`
	MediaSortKey int    `json:"media_sort_key"`
}

// SizeGroup holds the size group of a product model.
type SizeGroup struct {
	Size string `json:"size"`
}

// SizeCodes holds the size of a product simple.
type SizeCodes struct {
	Size string `json:"size"`
}

// ProductModelAttributes are the model-level attributes of a submission.
type ProductModelAttributes struct {
	Name            string    `json:"name"`
	BrandCode       string    `json:"brand_code"`
	SizeGroup       SizeGroup `json:"size_group"`
	TargetGenders   []string  `json:"target_genders"`
	TargetAgeGroups []string  `json:"target_age_groups"`
}

// ProductConfigAttributes are the variant-level attributes of a submission.
type ProductConfigAttributes struct {
	ColorCodePrimary string            `json:"color_code.primary"`
	Description      map[string]string `json:"description"`
	UpperMaterial    []MaterialShare   `json:"material.upper_material_clothing"`
	Media            []Media           `json:"media"`
	SeasonCode       string            `json:"season_code"`
	SupplierColor    string            `json:"supplier_color"`
}

// ProductSimpleAttributes are the size-level attributes of a submission.
type ProductSimpleAttributes struct {
	EAN       string    `json:"ean"`
	SizeCodes SizeCodes `json:"size_codes"`
}

// ProductSimple is one size of a product config.
type ProductSimple struct {
	MerchantProductSimpleID string                  `json:"merchant_product_simple_id"`
	ProductSimpleAttributes ProductSimpleAttributes `json:"product_simple_attributes"`
}

// ProductConfig is one color variant of a product model.
type ProductConfig struct {
	MerchantProductConfigID string                  `json:"merchant_product_config_id"`
	ProductConfigAttributes ProductConfigAttributes `json:"product_config_attributes"`
	ProductSimples          []ProductSimple         `json:"product_simples"`
}

// ProductModel is the top-level product of a submission.
type ProductModel struct {
	MerchantProductModelID string                 `json:"merchant_product_model_id"`
	ProductModelAttributes ProductModelAttributes `json:"product_model_attributes"`
	ProductConfigs         []ProductConfig        `json:"product_configs"`
}

// Submission is the marketplace product-submission payload.
type Submission struct {
	Outline      string       `json:"outline"`
	ProductModel ProductModel `json:"product_model"`
}

// Submission shapes the draft into the marketplace payload. It does not
// validate; callers validate the draft first.
func (d ProductDraft) Submission() Submission {
	media := make([]Media, 0, len(d.URL))
	for i, u := range d.URL {
		media = append(media, Media{MediaPath: u, MediaSortKey: i + 1})
	}

	simples := make([]ProductSimple, 0, len(d.Sizes))
	for _, row := range d.Sizes {
		simples = append(simples, ProductSimple{
			MerchantProductSimpleID: row.SizeID,
			ProductSimpleAttributes: ProductSimpleAttributes{
				EAN:       row.EAN,
				SizeCodes: SizeCodes{Size: row.VariantSize},
			},
		})
	}

	return Submission{
		Outline: d.ArticleType,
		ProductModel: ProductModel{
			MerchantProductModelID: d.ArticleID,
			ProductModelAttributes: ProductModelAttributes{
				Name:            d.Name,
				BrandCode:       d.BrandCode,
				SizeGroup:       SizeGroup{Size: d.Size},
				TargetGenders:   d.TargetGenders,
				TargetAgeGroups: d.TargetAge,
			},
			ProductConfigs: []ProductConfig{
				{
					MerchantProductConfigID: d.VariantID,
					ProductConfigAttributes: ProductConfigAttributes{
						ColorCodePrimary: d.ColorCode,
						Description:      map[string]string{"en": d.Description},
						UpperMaterial:    DefaultUpperMaterial,
						Media:            media,
						SeasonCode:       d.SeasonCode,
						SupplierColor:    d.SupplierCode,
					},
					ProductSimples: simples,
				},
			},
		},
	}
}

// ArticleDetail is the main detail of a catalog article.
type ArticleDetail struct {
	ID     int    `json:"id"`
	Number string `json:"number"`
}

// Article is a catalog article of the commerce platform.
type Article struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	MainDetail  ArticleDetail `json:"mainDetail"`
}

// Variant is an article variant as returned by the variants_adv resource.
type Variant struct {
	ID        int `json:"id"`
	ArticleID int `json:"articleId"`
}

// DraftPrefill holds the draft fields derived from a chosen article.
type DraftPrefill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	VariantID   string `json:"variantId"`
}
