package repository

import "nagapos/internal/domain"

var defaultCatalog = []domain.Product{
	{ID: "1", Name: "Wired Earphones", ImageURL: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=800&fit=crop"},
	{ID: "2", Name: "Wired Earphones High Quality", ImageURL: "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800&fit=crop"},
	{ID: "3", Name: "Mobile", ImageURL: "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=800&fit=crop"},
	{ID: "4", Name: "Remote", ImageURL: "https://images.unsplash.com/photo-1587825140708-dfaf72ae4b04?w=800&fit=crop"},
	{ID: "5", Name: "Charger", ImageURL: "https://images.unsplash.com/photo-1609091839311-d5365f5ff1f8?w=800&fit=crop"},
	{ID: "6", Name: "Temper", ImageURL: "https://images.unsplash.com/photo-1616348436168-de43ad0db179?w=800&fit=crop"},
	{ID: "7", Name: "Pouch", ImageURL: "https://images.unsplash.com/photo-1590874103328-eac38a683ce7?w=800&fit=crop"},
}

// SeedDocument returns the document written when the store is first created.
func SeedDocument() domain.Document {
	doc := domain.Document{
		Version:  domain.DocumentVersion,
		Products: append([]domain.Product(nil), defaultCatalog...),
	}
	doc.Normalize()
	return doc
}
