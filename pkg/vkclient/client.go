package vkclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"vk-match-bot/internal/config"
	"vk-match-bot/internal/constants"
	apperrors "vk-match-bot/internal/errors"
	"vk-match-bot/internal/models"
)

const apiBaseURL = "https://api.vk.com/method"

// Client represents a VK API client. Group-token methods drive the message
// transport; user-token methods drive search, photos, likes and city lookup.
type Client struct {
	httpClient *resty.Client
	groupToken string
	userToken  string
	version    string
	logger     *logrus.Logger
}

// apiError is the VK error envelope
type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

// apiResponse is the VK response envelope
type apiResponse struct {
	Error    *apiError       `json:"error"`
	Response json.RawMessage `json:"response"`
}

// profile is the wire shape of a VK user object
type profile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Sex       int    `json:"sex"`
	BDate     string `json:"bdate"`
	City      *struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"city"`
}

// toCandidate converts the wire profile to the domain model
func (p profile) toCandidate() models.Candidate {
	c := models.Candidate{
		VkID:      p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Sex:       p.Sex,
		Age:       models.AgeFromBirthDate(p.BDate, time.Now()),
	}
	if p.City != nil {
		c.City = p.City.Title
	}
	return c
}

// NewClient creates a new VK API client
func NewClient(cfg config.VKConfig, logger *logrus.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(constants.DefaultTimeout * time.Second).
		SetRetryCount(constants.DefaultRetryCount).
		SetRetryWaitTime(constants.DefaultRetryWaitTime * time.Second).
		SetRetryMaxWaitTime(constants.DefaultRetryMaxWaitTime * time.Second)

	return &Client{
		httpClient: httpClient,
		groupToken: cfg.GroupToken,
		userToken:  cfg.UserToken,
		version:    cfg.APIVersion,
		logger:     logger,
	}
}

// SetUserToken installs the user token acquired during bootstrap
func (c *Client) SetUserToken(token string) {
	c.userToken = token
}

// call performs one VK API method call and decodes the response envelope
func (c *Client) call(ctx context.Context, method, token string, params map[string]string, out interface{}) error {
	form := make(map[string]string, len(params)+2)
	for k, v := range params {
		form[k] = v
	}
	form["access_token"] = token
	form["v"] = c.version

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(form).
		Post(fmt.Sprintf("%s/%s", apiBaseURL, method))
	if err != nil {
		return &apperrors.VkAPIError{Method: method, Message: err.Error()}
	}

	var envelope apiResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return &apperrors.VkAPIError{Method: method, Message: fmt.Sprintf("failed to parse response: %v", err)}
	}

	if envelope.Error != nil {
		return &apperrors.VkAPIError{Method: method, Code: envelope.Error.Code, Message: envelope.Error.Message}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Response, out); err != nil {
			return &apperrors.VkAPIError{Method: method, Message: fmt.Sprintf("failed to unmarshal response: %v", err)}
		}
	}

	return nil
}

// SearchCandidates fetches one page of the directory search
func (c *Client) SearchCandidates(ctx context.Context, params models.SearchParams, offset, count int) ([]models.Candidate, error) {
	query := map[string]string{
		"sort":      "0",
		"has_photo": "1",
		"status":    "1",
		"fields":    "first_name,last_name,city,sex,bdate",
		"count":     strconv.Itoa(count),
		"offset":    strconv.Itoa(offset),
	}
	if params.AgeFrom > 0 {
		query["age_from"] = strconv.Itoa(params.AgeFrom)
	}
	if params.AgeTo > 0 {
		query["age_to"] = strconv.Itoa(params.AgeTo)
	}
	if params.Sex > 0 {
		query["sex"] = strconv.Itoa(params.Sex)
	}
	if params.CityID > 0 {
		query["city"] = strconv.FormatInt(params.CityID, 10)
	}

	var out struct {
		Items []profile `json:"items"`
	}
	if err := c.call(ctx, "users.search", c.userToken, query, &out); err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(out.Items))
	for _, p := range out.Items {
		candidates = append(candidates, p.toCandidate())
	}
	return candidates, nil
}

// GetProfile fetches a single user's profile
func (c *Client) GetProfile(ctx context.Context, vkID int64) (models.Candidate, error) {
	var out []profile
	err := c.call(ctx, "users.get", c.groupToken, map[string]string{
		"user_id": strconv.FormatInt(vkID, 10),
		"fields":  "first_name,last_name,city,sex,domain,bdate",
	}, &out)
	if err != nil {
		return models.Candidate{}, err
	}
	if len(out) == 0 {
		return models.Candidate{}, &apperrors.VkAPIError{Method: "users.get", Message: fmt.Sprintf("empty response for user %d", vkID)}
	}
	return out[0].toCandidate(), nil
}

// GetPhotos returns the user's profile photos together with photos the user
// is tagged on, ranked by like count in descending order
func (c *Client) GetPhotos(ctx context.Context, vkID int64) ([]models.PhotoRef, error) {
	type photoItem struct {
		ID      int64 `json:"id"`
		OwnerID int64 `json:"owner_id"`
		Likes   struct {
			Count int `json:"count"`
		} `json:"likes"`
	}
	type photoList struct {
		Items []photoItem `json:"items"`
	}

	owner := strconv.FormatInt(vkID, 10)

	var profilePhotos photoList
	err := c.call(ctx, "photos.get", c.userToken, map[string]string{
		"owner_id": owner,
		"album_id": "profile",
		"extended": "1",
	}, &profilePhotos)
	if err != nil {
		return nil, err
	}

	var taggedPhotos photoList
	err = c.call(ctx, "photos.get", c.userToken, map[string]string{
		"owner_id":  owner,
		"album_id":  "wall",
		"feed_type": "photo_tag",
		"extended":  "1",
	}, &taggedPhotos)
	if err != nil {
		c.logger.Warnf("Failed to fetch tagged photos for user %d: %v", vkID, err)
	}

	items := append(profilePhotos.Items, taggedPhotos.Items...)
	photos := make([]models.PhotoRef, 0, len(items))
	for _, item := range items {
		photos = append(photos, models.PhotoRef{
			OwnerID: item.OwnerID,
			ID:      item.ID,
			Likes:   item.Likes.Count,
		})
	}

	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].Likes > photos[j].Likes
	})

	c.logger.Debugf("Prepared %d photo attachments for user %d", len(photos), vkID)
	return photos, nil
}

// LikePhoto puts a like on the photo. The like counts as registered only
// when the resulting like count is positive.
func (c *Client) LikePhoto(ctx context.Context, ownerID, photoID int64) (bool, error) {
	var out struct {
		Likes int `json:"likes"`
	}
	err := c.call(ctx, "likes.add", c.userToken, map[string]string{
		"type":     "photo",
		"owner_id": strconv.FormatInt(ownerID, 10),
		"item_id":  strconv.FormatInt(photoID, 10),
	}, &out)
	if err != nil {
		return false, err
	}

	if out.Likes > 0 {
		c.logger.Infof("Liked photo %d of user %d", photoID, ownerID)
		return true, nil
	}

	c.logger.Warnf("Like was not registered for photo %d of user %d", photoID, ownerID)
	return false, nil
}

// GetCities resolves a free-text city name into candidate cities
func (c *Client) GetCities(ctx context.Context, query string) ([]models.City, error) {
	if strings.TrimSpace(query) == "" {
		c.logger.Warnf("Got empty city query")
		return nil, nil
	}

	var out struct {
		Items []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"items"`
	}
	err := c.call(ctx, "database.getCities", c.userToken, map[string]string{
		"q":        query,
		"need_all": "1",
	}, &out)
	if err != nil {
		return nil, err
	}

	cities := make([]models.City, 0, len(out.Items))
	for _, item := range out.Items {
		cities = append(cities, models.City{ID: item.ID, Title: item.Title})
	}

	c.logger.Infof("Found %d cities for query %q", len(cities), query)
	return cities, nil
}

// SendMessage sends an outbound message with an optional keyboard and photo
// attachment. Transient transport failures are retried by the underlying
// HTTP client with exponential backoff.
func (c *Client) SendMessage(ctx context.Context, userID int64, text string, keyboard *Keyboard, attachment string) error {
	params := map[string]string{
		"user_id":   strconv.FormatInt(userID, 10),
		"message":   text,
		"random_id": strconv.FormatInt(time.Now().UnixMilli(), 10),
	}

	if keyboard != nil {
		kb, err := json.Marshal(keyboard)
		if err != nil {
			return fmt.Errorf("failed to marshal keyboard: %w", err)
		}
		params["keyboard"] = string(kb)
	}
	if attachment != "" {
		params["attachment"] = attachment
	}

	return c.call(ctx, "messages.send", c.groupToken, params, nil)
}
