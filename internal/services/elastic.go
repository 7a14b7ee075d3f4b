package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const ProductIndex = "products"

//
// --- INDEXATION DANS ELASTICSEARCH ---
//

// IndexProduct indexe un produit du catalogue dans Elasticsearch
func IndexProduct(p models.Product) {
	if database.Elastic == nil {
		log.Println("⚠️ Elastic non initialisé, impossible d'indexer:", p.Name)
		return
	}

	data, _ := json.Marshal(p)
	req := esapi.IndexRequest{
		Index:      ProductIndex,
		DocumentID: p.ID.String(),
		Body:       bytes.NewReader(data),
		Refresh:    "true", // rend la donnée immédiatement visible
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur envoi Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", p.Name, res.String())
	} else {
		log.Printf("✅ Produit indexé dans Elasticsearch: %s", p.Name)
	}
}

// RemoveProductFromIndex retire un produit de l'index
func RemoveProductFromIndex(productID string) {
	if database.Elastic == nil {
		return
	}

	req := esapi.DeleteRequest{
		Index:      ProductIndex,
		DocumentID: productID,
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur suppression Elastic:", err)
		return
	}
	defer res.Body.Close()
}

//
// --- RECHERCHE DANS ELASTICSEARCH ---
//

type SearchParams struct {
	Query      string
	CategoryID string
	MinPrice   float64
	MaxPrice   float64
	SortBy     string // "relevance", "price_asc", "price_desc", "newest"
	Page       int
	Limit      int
}

type SearchHit struct {
	ObjectID string                 `json:"objectID"`
	Source   map[string]interface{} `json:"source"`
}

type SearchResult struct {
	Hits   []SearchHit    `json:"hits"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
	Pages  int            `json:"pages"`
	Facets map[string]int `json:"facets"` // catégorie → nombre de produits
}

// SearchProducts interroge l'index produits : texte libre, filtres,
// tri, pagination et facettes par catégorie
func SearchProducts(params SearchParams) (*SearchResult, error) {
	if database.Elastic == nil {
		return nil, errors.New("client Elasticsearch non initialisé")
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	must := []map[string]interface{}{}
	if params.Query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  params.Query,
				"fields": []string{"name^3", "description", "tags", "sku"},
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	filter := []map[string]interface{}{
		{"term": map[string]interface{}{"is_active": true}},
	}
	if params.CategoryID != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"category_ids": params.CategoryID},
		})
	}
	if params.MinPrice > 0 || params.MaxPrice > 0 {
		priceRange := map[string]interface{}{}
		if params.MinPrice > 0 {
			priceRange["gte"] = params.MinPrice
		}
		if params.MaxPrice > 0 {
			priceRange["lte"] = params.MaxPrice
		}
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"price": priceRange},
		})
	}

	q := map[string]interface{}{
		"from": (params.Page - 1) * params.Limit,
		"size": params.Limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
		"aggs": map[string]interface{}{
			"categories": map[string]interface{}{
				"terms": map[string]interface{}{"field": "category_ids", "size": 50},
			},
		},
	}

	switch params.SortBy {
	case "price_asc":
		q["sort"] = []map[string]interface{}{{"price": "asc"}}
	case "price_desc":
		q["sort"] = []map[string]interface{}{{"price": "desc"}}
	case "newest":
		q["sort"] = []map[string]interface{}{{"created_at": "desc"}}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{ProductIndex},
		Body:  &buf,
	}
	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		json.NewDecoder(res.Body).Decode(&e)
		log.Printf("❌ Elasticsearch erreur: %+v", e)
		return nil, errors.New("index non trouvé ou vide")
	}

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %v", err)
	}

	return parseSearchResponse(r, params)
}

func parseSearchResponse(r map[string]interface{}, params SearchParams) (*SearchResult, error) {
	hitsData, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, errors.New("réponse Elastic invalide (pas de hits)")
	}

	total := 0
	if t, ok := hitsData["total"].(map[string]interface{}); ok {
		if v, ok := t["value"].(float64); ok {
			total = int(v)
		}
	}

	result := &SearchResult{
		Hits:   []SearchHit{},
		Total:  total,
		Page:   params.Page,
		Pages:  (total + params.Limit - 1) / params.Limit,
		Facets: map[string]int{},
	}

	hitsArray, _ := hitsData["hits"].([]interface{})
	for _, hit := range hitsArray {
		hitMap, _ := hit.(map[string]interface{})
		source, _ := hitMap["_source"].(map[string]interface{})
		id, _ := hitMap["_id"].(string)
		result.Hits = append(result.Hits, SearchHit{ObjectID: id, Source: source})
	}

	// Facettes catégories
	if aggs, ok := r["aggregations"].(map[string]interface{}); ok {
		if categories, ok := aggs["categories"].(map[string]interface{}); ok {
			if buckets, ok := categories["buckets"].([]interface{}); ok {
				for _, b := range buckets {
					bucket, _ := b.(map[string]interface{})
					key := fmt.Sprintf("%v", bucket["key"])
					if count, ok := bucket["doc_count"].(float64); ok {
						result.Facets[key] = int(count)
					}
				}
			}
		}
	}

	return result, nil
}

// ParsePagination lit page/limit depuis des query params avec bornes sûres
func ParsePagination(pageStr, limitStr string) (int, int) {
	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
