package handlers

import (
	"net/http"

	"github.com/waste3d/tianji-twin-api/internal/application/usecase"
	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	users        usecase.UserStore
	completeness *usecase.CompletenessUseCase
}

func NewProfileHandler(users usecase.UserStore, completeness *usecase.CompletenessUseCase) *ProfileHandler {
	return &ProfileHandler{users: users, completeness: completeness}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var birthDate *string
	if user.BirthDate != nil {
		s := user.BirthDate.Format(domain.DateLayout)
		birthDate = &s
	}
	respondData(c, http.StatusOK, gin.H{
		"id":             user.ID,
		"birth_date":     birthDate,
		"birth_time":     user.BirthTime,
		"birth_place":    user.BirthPlace,
		"gender":         user.Gender,
		"mbti":           user.MBTI,
		"profession":     user.Profession,
		"current_status": user.CurrentStatus,
		"wishes":         user.Wishes,
		"coin_balance":   user.CoinBalance,
	})
}

type updateProfileReq struct {
	BirthDate     *string `json:"birth_date"`
	BirthTime     *string `json:"birth_time"`
	BirthPlace    *string `json:"birth_place"`
	Gender        *string `json:"gender"`
	MBTI          *string `json:"mbti"`
	Profession    *string `json:"profession"`
	CurrentStatus *string `json:"current_status"`
	Wishes        *string `json:"wishes"`
}

// Update applies the partial profile mutation and settles completeness
// rewards in one go; the response carries the crossed-threshold events.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.BirthDate != nil {
		parsed, err := domain.ParseDate(*req.BirthDate)
		if err != nil {
			respondError(c, err)
			return
		}
		updates["birth_date"] = parsed
	}
	if req.BirthTime != nil {
		updates["birth_time"] = *req.BirthTime
	}
	if req.BirthPlace != nil {
		updates["birth_place"] = *req.BirthPlace
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.MBTI != nil {
		updates["mbti"] = *req.MBTI
	}
	if req.Profession != nil {
		updates["profession"] = *req.Profession
	}
	if req.CurrentStatus != nil {
		updates["current_status"] = *req.CurrentStatus
	}
	if req.Wishes != nil {
		updates["wishes"] = *req.Wishes
	}
	if len(updates) == 0 {
		respondValidation(c, "no fields to update")
		return
	}

	result, events, err := h.completeness.ApplyProfileUpdate(c.Request.Context(), userID(c), updates)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"completeness": result,
		"events":       events,
	})
}

func (h *ProfileHandler) Completeness(c *gin.Context) {
	result, err := h.completeness.Get(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}
