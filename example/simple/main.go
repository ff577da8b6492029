package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skynet2/collection"
	"github.com/skynet2/collection/cache"
)

// Product is a sample record served by the collection.
type Product struct {
	ID       string
	Name     string
	Category string
}

type ProductFilter struct {
	Category string `cbor:"category,omitempty"`
}

var products = map[string]Product{
	"1": {ID: "1", Name: "Keyboard", Category: "input"},
	"2": {ID: "2", Name: "Mouse", Category: "input"},
	"3": {ID: "3", Name: "Monitor", Category: "output"},
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	// one store backs the object, list and tag caches
	store := cache.NewMemoryStore()

	base := collection.NewBuilder[Product](func(p Product) string { return p.ID }).
		WithLoadFew(func(ctx context.Context, ids []string) (map[string]Product, error) {
			zerolog.Ctx(ctx).Info().Strs("ids", ids).Msg("loading products from source")

			res := map[string]Product{}
			for _, id := range ids {
				if p, ok := products[id]; ok {
					res[id] = p
				}
			}

			return res, nil
		}).
		WithStore(store).
		WithTtl(5 * time.Minute)

	col, err := collection.NewListableBuilder[Product, ProductFilter, string](base).
		WithLoadListWithMeta(func(ctx context.Context, f ProductFilter) (collection.ListData[Product, string], error) {
			zerolog.Ctx(ctx).Info().Str("category", f.Category).Msg("loading product list from source")

			var items []Product
			for _, id := range []string{"1", "2", "3"} {
				if p := products[id]; f.Category == "" || p.Category == f.Category {
					items = append(items, p)
				}
			}

			return collection.ListData[Product, string]{Items: items, Meta: fmt.Sprintf("total=%d", len(items))}, nil
		}).
		WithInvalidationTags(func(f ProductFilter) []string {
			if f.Category == "" {
				return []string{"category=*"}
			}

			return []string{"category=" + f.Category}
		}).
		Build()
	if err != nil {
		logger.Fatal().Err(err).Msg("can not build collection")
	}

	// both ids end up in one loader call
	few, err := col.GetFewAsArray(ctx, []string{"1", "3", "1"})
	if err != nil {
		logger.Fatal().Err(err).Send()
	}
	logger.Info().Msgf("few: %v", names(few))

	for i := 0; i < 2; i++ {
		list, err := col.GetListWithMeta(ctx, ProductFilter{Category: "input"})
		if err != nil {
			logger.Fatal().Err(err).Send()
		}
		logger.Info().Int("attempt", i+1).Interface("meta", list.Meta).Msgf("input products: %v", names(list.Items))
	}

	// after a write to the source, drop the tag and the object
	products["2"] = Product{ID: "2", Name: "Trackball", Category: "input"}

	if err = col.InvalidateCacheTag(ctx, "category=input"); err != nil {
		logger.Fatal().Err(err).Send()
	}
	if err = col.ClearCache(ctx, "2"); err != nil {
		logger.Fatal().Err(err).Send()
	}

	list, err := col.GetList(ctx, ProductFilter{Category: "input"})
	if err != nil {
		logger.Fatal().Err(err).Send()
	}
	logger.Info().Msgf("input products after update: %v", names(list))
}

func names(items []Product) string {
	res := make([]string, 0, len(items))
	for _, p := range items {
		res = append(res, p.Name)
	}

	return strings.Join(res, ", ")
}
