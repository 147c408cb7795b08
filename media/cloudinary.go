// Package media stores menu images on Cloudinary.
package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"table_order/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageStore is what the menu service needs from an image host.
type ImageStore interface {
	Upload(ctx context.Context, file any, folder, publicID string) (Image, error)
	Destroy(ctx context.Context, publicID string) error
}

type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

type Cloudinary struct {
	cld       *cloudinary.Cloudinary
	apiKey    string
	apiSecret string
	cloudName string
}

// NewCloudinaryFromEnv returns nil when the CLOUDINARY_* variables are unset,
// which switches image upload off.
func NewCloudinaryFromEnv() (*Cloudinary, error) {
	cloudName := config.Config("CLOUDINARY_CLOUD_NAME")
	apiKey := config.Config("CLOUDINARY_API_KEY")
	apiSecret := config.Config("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld, apiKey: apiKey, apiSecret: apiSecret, cloudName: cloudName}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, file any, folder, publicID string) (Image, error) {
	res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return Image{}, err
	}
	if res.Error.Message != "" {
		return Image{}, errors.New(res.Error.Message)
	}
	return Image{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}

// UploadSignature lets a browser upload straight to Cloudinary.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	ApiKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
	Folder    string `json:"folder,omitempty"`
	PublicID  string `json:"publicId,omitempty"`
}

func (c *Cloudinary) Sign(folder, publicID string, at time.Time) (UploadSignature, error) {
	params := url.Values{}
	if folder != "" {
		params.Set("folder", folder)
	}
	if publicID != "" {
		params.Set("public_id", publicID)
	}
	ts := at.Unix()
	params.Set("timestamp", strconv.FormatInt(ts, 10))

	signature, err := api.SignParameters(params, c.apiSecret)
	if err != nil {
		return UploadSignature{}, err
	}
	return UploadSignature{
		Signature: signature,
		Timestamp: ts,
		ApiKey:    c.apiKey,
		CloudName: c.cloudName,
		Folder:    folder,
		PublicID:  publicID,
	}, nil
}
