package recipe

import (
	"crypto/md5"
	"math/big"
)

const DefaultImageURL = "https://images.unsplash.com/photo-1565299624946-b28f40a0ca4b?w=800&h=600&fit=crop&crop=center"

var recipeImages = []string{
	DefaultImageURL,
	"https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=800&h=600&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1567620905732-2d1ec7ab7445?w=800&h=600&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1565958011703-44f9829ba187?w=800&h=600&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1551782450-a2132b4ba21d?w=800&h=600&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1563379091339-03246963d7d3?w=800&h=600&fit=crop&crop=center",
}

// ImageFor picks a stock photo for a title. The same title always gets the
// same photo.
func ImageFor(title string) string {
	if title == "" {
		return DefaultImageURL
	}
	sum := md5.Sum([]byte(title))
	n := new(big.Int).SetBytes(sum[:])
	idx := new(big.Int).Mod(n, big.NewInt(int64(len(recipeImages))))
	return recipeImages[idx.Int64()]
}
