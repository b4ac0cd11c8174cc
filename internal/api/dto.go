package api

import "github.com/mmcdole/campus/internal/domain"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	JWT   string `json:"jwt"`
}

type currentUserResponse struct {
	ID int64 `json:"id"`
}

type courseEnvelope struct {
	Message string        `json:"message"`
	Data    domain.Course `json:"data"`
}

// courseUpdate is the body of PUT /courses/{id}
type courseUpdate struct {
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Body       string  `json:"body"`
	ImageURL   string  `json:"imageUrl"`
	Instructor string  `json:"instructor"`
}

type applyCourseRequest struct {
	CourseID int64 `json:"courseId"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type averageRatingResponse struct {
	InstructorID  int64    `json:"instructorId"`
	AverageRating *float64 `json:"averageRating"`
	Message       string   `json:"message"`
}
