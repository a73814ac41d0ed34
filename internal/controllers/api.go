package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-words/internal/models"
	"github.com/go-while/go-words/internal/resource"
	"github.com/go-while/go-words/internal/services"
)

// UsersController exposes services.UserService as a REST resource
type UsersController struct {
	Users *services.UserService
}

func (uc *UsersController) List(c *gin.Context) (interface{}, error) {
	users, err := uc.Users.List(c.Request.Context())
	if users == nil {
		users = []*models.User{}
	}
	return users, err
}

func (uc *UsersController) Get(c *gin.Context, id int64) (interface{}, error) {
	return uc.Users.Get(c.Request.Context(), id)
}

func (uc *UsersController) Create(c *gin.Context) (interface{}, error) {
	var in services.UserInput
	if err := resource.BindJSON(c, &in); err != nil {
		return nil, err
	}
	return uc.Users.Create(c.Request.Context(), in)
}

func (uc *UsersController) Update(c *gin.Context, id int64) (interface{}, error) {
	var in services.UserInput
	if err := resource.BindJSON(c, &in); err != nil {
		return nil, err
	}
	return uc.Users.Update(c.Request.Context(), id, in)
}

func (uc *UsersController) Delete(c *gin.Context, id int64) error {
	return uc.Users.Delete(c.Request.Context(), id)
}

// LanguagesController exposes services.LanguageService as a REST resource
type LanguagesController struct {
	Languages *services.LanguageService
}

func (lc *LanguagesController) List(c *gin.Context) (interface{}, error) {
	languages, err := lc.Languages.List(c.Request.Context())
	if languages == nil {
		languages = []*models.Language{}
	}
	return languages, err
}

func (lc *LanguagesController) Get(c *gin.Context, id int64) (interface{}, error) {
	return lc.Languages.Get(c.Request.Context(), id)
}

func (lc *LanguagesController) Create(c *gin.Context) (interface{}, error) {
	var in services.LanguageInput
	if err := resource.BindJSON(c, &in); err != nil {
		return nil, err
	}
	return lc.Languages.Create(c.Request.Context(), in)
}

func (lc *LanguagesController) Update(c *gin.Context, id int64) (interface{}, error) {
	var in services.LanguageInput
	if err := resource.BindJSON(c, &in); err != nil {
		return nil, err
	}
	return lc.Languages.Update(c.Request.Context(), id, in)
}

func (lc *LanguagesController) Delete(c *gin.Context, id int64) error {
	return lc.Languages.Delete(c.Request.Context(), id)
}

// CatalogsController exposes services.CatalogService as a REST resource
type CatalogsController struct {
	Catalogs *services.CatalogService
	Words    *services.WordService
}

// List honors ?language_id= and ?user_id=
func (cc *CatalogsController) List(c *gin.Context) (interface{}, error) {
	var filter models.CatalogFilter
	var err error
	if filter.LanguageID, err = resource.QueryID(c, "language_id"); err != nil {
		return nil, err
	}
	if filter.UserID, err = resource.QueryID(c, "user_id"); err != nil {
		return nil, err
	}
	catalogs, err := cc.Catalogs.List(c.Request.Context(), filter)
	if catalogs == nil {
		catalogs = []*models.Catalog{}
	}
	return catalogs, err
}

func (cc *CatalogsController) Get(c *gin.Context, id int64) (interface{}, error) {
	return cc.Catalogs.Get(c.Request.Context(), id)
}

func (cc *CatalogsController) Create(c *gin.Context) (interface{}, error) {
	var in services.CatalogInput
	if err := resource.BindJSON(c, &in); err != nil {
		return nil, err
	}
	return cc.Catalogs.Create(c.Request.Context(), in)
}

func (cc *CatalogsController) Update(c *gin.Context, id int64) (interface{}, error) {
	var in services.CatalogInput
	if err := resource.BindJSON(c, &in); err != nil {
		return nil, err
	}
	return cc.Catalogs.Update(c.Request.Context(), id, in)
}

func (cc *CatalogsController) Delete(c *gin.Context, id int64) error {
	return cc.Catalogs.Delete(c.Request.Context(), id)
}

// ListWords serves GET /catalogs/:id/words
func (cc *CatalogsController) ListWords(c *gin.Context) {
	id, err := resource.ParseID(c.Param("id"))
	if err != nil {
		resource.Abort(c, err)
		return
	}
	words, err := cc.Words.List(c.Request.Context(), id)
	if err != nil {
		resource.Abort(c, err)
		return
	}
	if words == nil {
		words = []*models.Word{}
	}
	c.JSON(http.StatusOK, words)
}

// WordsController exposes services.WordService as a REST resource
type WordsController struct {
	Words *services.WordService
}

// List honors ?catalog_id=
func (wc *WordsController) List(c *gin.Context) (interface{}, error) {
	catalogID, err := resource.QueryID(c, "catalog_id")
	if err != nil {
		return nil, err
	}
	words, err := wc.Words.List(c.Request.Context(), catalogID)
	if words == nil {
		words = []*models.Word{}
	}
	return words, err
}

func (wc *WordsController) Get(c *gin.Context, id int64) (interface{}, error) {
	return wc.Words.Get(c.Request.Context(), id)
}

func (wc *WordsController) Create(c *gin.Context) (interface{}, error) {
	var in services.WordInput
	if err := resource.BindJSON(c, &in); err != nil {
		return nil, err
	}
	return wc.Words.Create(c.Request.Context(), in)
}

func (wc *WordsController) Update(c *gin.Context, id int64) (interface{}, error) {
	var in services.WordInput
	if err := resource.BindJSON(c, &in); err != nil {
		return nil, err
	}
	return wc.Words.Update(c.Request.Context(), id, in)
}

func (wc *WordsController) Delete(c *gin.Context, id int64) error {
	return wc.Words.Delete(c.Request.Context(), id)
}
