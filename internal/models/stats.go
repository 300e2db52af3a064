package models

// Platform-wide dashboard counters, shown to holders
type GlobalStats struct {
	TotalPosts     int `json:"totalPosts"`
	TotalUsers     int `json:"totalUsers"`
	TotalComments  int `json:"totalComments"`
	TotalFavorites int `json:"totalFavorites"`
	PostsWeek      int `json:"postsWeek"`
	UsersWeek      int `json:"usersWeek"`
	CommentsWeek   int `json:"commentsWeek"`
}

// Counters scoped to one author's posts, shown to admins
type AuthorStats struct {
	TotalPosts     int `json:"totalPosts"`
	TotalComments  int `json:"totalComments"`
	TotalFavorites int `json:"totalFavorites"`
	PostsWeek      int `json:"postsWeek"`
	CommentsWeek   int `json:"commentsWeek"`
}

// Monthly activity point for the analytics charts
type MonthlyActivity struct {
	Month     string `json:"month"` // formatted YYYY-MM
	Posts     int    `json:"posts"`
	Comments  int    `json:"comments"`
	Favorites int    `json:"favorites"`
}
