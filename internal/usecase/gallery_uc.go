package usecase

import (
	"context"
	"strings"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
)

// DefaultUploadFolder is where product media lands on the hosting side when
// the caller does not pick a folder.
const DefaultUploadFolder = "product_images"

type GalleryUC struct {
	Images domain.GalleryRepo
	Media  domain.MediaStorage
}

// UploadFile is one incoming multipart part.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Upload pushes image files to the media host and records one gallery row
// per stored URL. Non-image parts are dropped before any upload happens.
func (uc *GalleryUC) Upload(ctx context.Context, files []UploadFile, folder string) ([]domain.GalleryImage, error) {
	imgs := filterImages(files)
	if len(imgs) == 0 {
		return nil, domain.Invalid("no valid image files provided")
	}
	if folder == "" {
		folder = DefaultUploadFolder
	}
	rows := make([]domain.GalleryImage, 0, len(imgs))
	for _, f := range imgs {
		url, err := uc.Media.Upload(ctx, folder, f.Name, f.Data)
		if err != nil {
			return nil, err
		}
		rows = append(rows, domain.GalleryImage{
			ImageURL:     url,
			OriginalName: f.Name,
			FileSize:     int64(len(f.Data)),
			MimeType:     f.ContentType,
		})
	}
	if err := uc.Images.SaveAll(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// UploadOnly stores files on the media host without recording gallery rows.
func (uc *GalleryUC) UploadOnly(ctx context.Context, files []UploadFile, folder string) ([]string, error) {
	imgs := filterImages(files)
	if len(imgs) == 0 {
		return nil, domain.Invalid("no valid image files provided")
	}
	if folder == "" {
		folder = DefaultUploadFolder
	}
	urls := make([]string, 0, len(imgs))
	for _, f := range imgs {
		url, err := uc.Media.Upload(ctx, folder, f.Name, f.Data)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (uc *GalleryUC) List(ctx context.Context) ([]domain.GalleryImage, error) {
	return uc.Images.List(ctx)
}

// Delete removes gallery images by URL, or every image when deleteAll is
// set. The media host is purged first so a storage failure leaves the rows
// in place for a retry.
func (uc *GalleryUC) Delete(ctx context.Context, imageURLs []string, deleteAll bool) error {
	if deleteAll {
		all, err := uc.Images.List(ctx)
		if err != nil {
			return err
		}
		urls := make([]string, len(all))
		for i, img := range all {
			urls[i] = img.ImageURL
		}
		if len(urls) > 0 {
			if err := uc.Media.Destroy(ctx, urls); err != nil {
				return err
			}
		}
		return uc.Images.DeleteAll(ctx)
	}
	if len(imageURLs) == 0 {
		return domain.Invalid("no image URLs provided")
	}
	found, err := uc.Images.FindByURLs(ctx, imageURLs)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return domain.ErrNotFound
	}
	urls := make([]string, len(found))
	for i, img := range found {
		urls[i] = img.ImageURL
	}
	if err := uc.Media.Destroy(ctx, urls); err != nil {
		return err
	}
	return uc.Images.DeleteByURLs(ctx, urls)
}

// PurgeFolder wipes every stored resource under the folder on the media
// host. Gallery rows are untouched.
func (uc *GalleryUC) PurgeFolder(ctx context.Context, folder string) error {
	if folder == "" {
		folder = DefaultUploadFolder
	}
	return uc.Media.DestroyFolder(ctx, folder)
}

func filterImages(files []UploadFile) []UploadFile {
	out := files[:0:0]
	for _, f := range files {
		if strings.HasPrefix(f.ContentType, "image/") && len(f.Data) > 0 {
			out = append(out, f)
		}
	}
	return out
}
