package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/pokeru-app/backend/internal/models"
)

const GameIndex = "games"

// Index wraps the Elasticsearch client for game documents. A nil Index
// disables search entirely; indexing is best-effort on the write path.
type Index struct {
	es *elasticsearch.Client
}

func NewIndex(url, user, password string) (*Index, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: %s", res.Status())
	}

	return &Index{es: client}, nil
}

func (i *Index) IndexGame(ctx context.Context, game *models.Game) error {
	if i == nil {
		return nil
	}

	body, err := json.Marshal(game)
	if err != nil {
		return err
	}

	res, err := i.es.Index(
		GameIndex,
		bytes.NewReader(body),
		i.es.Index.WithDocumentID(game.UID.String()),
		i.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index game: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index game: %s", res.Status())
	}
	return nil
}

func (i *Index) DeleteGame(ctx context.Context, uid string) error {
	if i == nil {
		return nil
	}

	res, err := i.es.Delete(GameIndex, uid, i.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete game: %s", res.Status())
	}
	return nil
}

// SearchGames runs a fuzzy multi-match over title, location and host.
func (i *Index) SearchGames(ctx context.Context, query string, from, size int) (int64, []models.Game, error) {
	if i == nil {
		return 0, nil, fmt.Errorf("search is not configured")
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "location", "host"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(GameIndex),
		i.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search games: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search games: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Game `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	games := make([]models.Game, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		games[i] = hit.Source
	}
	return r.Hits.Total.Value, games, nil
}
