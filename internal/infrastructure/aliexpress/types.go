package aliexpress

// SearchResponse is the subset of the item search payload the mapper reads
type SearchResponse struct {
	Result struct {
		Status struct {
			Code int    `json:"code"`
			Data string `json:"data"`
		} `json:"status"`
		Settings struct {
			Currency string `json:"currency"`
		} `json:"settings"`
		ResultList []ResultItem `json:"resultList"`
	} `json:"result"`
}

// ResultItem wraps one catalog hit
type ResultItem struct {
	Item     Item     `json:"item"`
	Delivery Delivery `json:"delivery"`
	Store    Store    `json:"store"`
}

// Item is a product in the AliExpress catalog
type Item struct {
	ItemID          string  `json:"itemId"`
	Title           string  `json:"title"`
	Sales           string  `json:"sales"`
	ItemURL         string  `json:"itemUrl"`
	Image           string  `json:"image"`
	AverageStarRate float64 `json:"averageStarRate"`
	SKU             struct {
		Def struct {
			Price          string `json:"price"`
			PromotionPrice string `json:"promotionPrice"`
		} `json:"def"`
	} `json:"sku"`
}

// Delivery describes shipping terms for an item
type Delivery struct {
	FreeShipping bool   `json:"freeShipping"`
	ShippingFee  string `json:"shippingFee"`
	DeliveryDays string `json:"deliveryDays"`
}

// Store identifies the seller
type Store struct {
	StoreID    string  `json:"storeId"`
	StoreTitle string  `json:"storeTitle"`
	Rating     float64 `json:"positiveRate"`
}
