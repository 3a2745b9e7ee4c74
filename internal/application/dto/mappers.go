package dto

import "github.com/jhoicas/brownson-api/internal/domain/entity"

// FromUser convierte la entidad a su salida pública (sin hash de contraseña).
func FromUser(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		ContactNumber: u.ContactNumber,
		Address:       u.Address,
		ProfileImg:    u.ProfileImg,
		Role:          string(u.Role),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// FromReview salida de una reseña; User es nil si el autor fue eliminado.
func FromReview(r entity.Review) ReviewResponse {
	out := ReviewResponse{
		ID:        r.ID,
		Name:      r.UserName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
	if r.UserID != "" {
		out.User = &ReviewerDTO{ID: r.UserID, Name: r.UserName}
	}
	return out
}

// FromReviews convierte una lista de reseñas; nunca devuelve nil.
func FromReviews(reviews []entity.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, FromReview(r))
	}
	return out
}

// FromProduct salida de un producto.
func FromProduct(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	images := make([]ImageDTO, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageDTO{ID: img.ID, Image: img.URL})
	}
	return &ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Description:  p.Description,
		Category:     string(p.Category),
		Seller:       p.Seller,
		Stock:        p.Stock,
		Quantity:     QuantityDTO{Value: p.Quantity.Value, Unit: string(p.Quantity.Unit)},
		Images:       images,
		Ratings:      p.Ratings,
		NumOfReviews: p.NumOfReviews,
		Reviews:      FromReviews(p.Reviews),
		User:         p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// FromProducts convierte una lista de productos; nunca devuelve nil.
func FromProducts(products []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *FromProduct(p))
	}
	return out
}

// FromCartItem salida de una línea del carrito con los datos vivos del producto.
func FromCartItem(c *entity.CartItem) CartItemResponse {
	out := CartItemResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		ProductID:   c.ProductID,
		ProductName: c.ProductName,
		Image:       c.Image,
		Quantity:    c.Quantity,
		Price:       c.Price,
		TotalPrice:  c.TotalPrice,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.Product != nil {
		out.Product = &CartProductDTO{
			ID:    c.Product.ID,
			Name:  c.Product.Name,
			Price: c.Product.Price,
			Image: c.Product.FirstImage(),
			Stock: c.Product.Stock,
		}
	}
	return out
}

// FromOrder salida de un pedido.
func FromOrder(o *entity.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	lines := make([]OrderLineDTO, 0, len(o.Products))
	for _, l := range o.Products {
		lines = append(lines, OrderLineDTO{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Image:       l.Image,
			Quantity:    l.Quantity,
			Price:       l.Price,
		})
	}
	return &OrderResponse{
		ID: o.ID,
		User: PurchaserDTO{
			UserID:          o.User.UserID,
			Username:        o.User.Username,
			DeliveryAddress: o.User.DeliveryAddress,
			ContactNumber:   o.User.ContactNumber,
		},
		Products:      lines,
		TotalPrice:    o.TotalPrice,
		PaymentStatus: string(o.PaymentStatus),
		OrderStatus:   string(o.OrderStatus),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// FromOrders convierte una lista de pedidos; nunca devuelve nil.
func FromOrders(orders []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, *FromOrder(o))
	}
	return out
}
