package db

import (
	"article-podcaster/internal/models"
)

func CreateArticle(url *string, title, content string, author *string, sourceType string, editable bool) (models.Article, error) {
	article := models.Article{}
	err := DB.Get(&article, `
		INSERT INTO articles (url, title, content, author, source_type, is_editable)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING *`,
		url, title, content, author, sourceType, editable)
	return article, err
}

func GetArticleByID(id int64) (models.Article, error) {
	article := models.Article{}
	err := DB.Get(&article, "SELECT * FROM articles WHERE id = $1", id)
	return article, notFound(err)
}

func GetArticleByURL(url string) (models.Article, error) {
	article := models.Article{}
	err := DB.Get(&article, "SELECT * FROM articles WHERE url = $1", url)
	return article, notFound(err)
}

func GetAllArticles() ([]models.Article, error) {
	articles := []models.Article{}
	err := DB.Select(&articles, "SELECT * FROM articles ORDER BY created_at DESC")
	return articles, err
}

// UpdateArticle overwrites the editable fields of a text-sourced article.
func UpdateArticle(id int64, title, content string, author *string) error {
	_, err := DB.Exec(`
		UPDATE articles SET title = $1, content = $2, author = $3 WHERE id = $4`,
		title, content, author, id)
	return err
}

// DeleteArticle removes the article; the episode row goes with it via the
// ON DELETE CASCADE foreign key.
func DeleteArticle(id int64) error {
	_, err := DB.Exec("DELETE FROM articles WHERE id = $1", id)
	return err
}

func CountArticles() (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM articles")
	return count, err
}
