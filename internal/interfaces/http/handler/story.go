// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-story-api/internal/application/library"
	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/interfaces/http/dto"
	apperrors "ai-story-api/pkg/errors"
)

// StoryGenerator 故事生成端口
type StoryGenerator interface {
	Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GeneratedStory, error)
}

// StoryHandler 故事处理器
type StoryHandler struct {
	generator StoryGenerator
	library   *library.Service
}

// NewStoryHandler 创建故事处理器
func NewStoryHandler(generator StoryGenerator, lib *library.Service) *StoryHandler {
	return &StoryHandler{
		generator: generator,
		library:   lib,
	}
}

// GenerateStory 生成故事
// @Summary 生成故事
// @Tags Stories
// @Accept json
// @Produce json
// @Param body body dto.GenerateStoryRequest true "生成参数"
// @Success 200 {object} dto.GenerateStoryResponse
// @Router /generate_story [post]
func (h *StoryHandler) GenerateStory(c *gin.Context) {
	var req dto.GenerateStoryRequest
	if err := dto.DecodeJSON(c, &req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), req.ToEntity())
	if err != nil {
		dto.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GenerateStoryResponse{
		Title: result.Title,
		Story: result.Story,
	})
}

// SaveStory 保存故事
// @Summary 保存故事
// @Tags Stories
// @Accept json
// @Produce json
// @Param body body dto.SaveStoryRequest true "故事内容"
// @Success 201 {object} dto.SaveStoryResponse
// @Router /save_story [post]
func (h *StoryHandler) SaveStory(c *gin.Context) {
	var req dto.SaveStoryRequest
	if err := dto.DecodeJSON(c, &req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	saved, err := h.library.Save(c.Request.Context(), library.SaveInput{
		Prompt: req.Prompt,
		Title:  req.Title,
		Story:  req.Story,
	})
	if err != nil {
		dto.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SaveStoryResponse{
		Message: "Story saved successfully",
		Story:   dto.ToStoryResponse(saved),
	})
}

// ListStories 获取故事列表
// @Summary 获取故事列表
// @Description 不带 page 与 limit 时返回全部故事
// @Tags Stories
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} dto.StoryListResponse
// @Router /stories [get]
func (h *StoryHandler) ListStories(c *gin.Context) {
	q, err := dto.BindListQuery(c)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	if !q.Paginated {
		stories, err := h.library.GetAll(ctx)
		if err != nil {
			dto.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.StoryListResponse{
			Stories: dto.ToStoryResponses(stories),
			Total:   int64(len(stories)),
			Page:    1,
			Limit:   len(stories),
		})
		return
	}

	result, err := h.library.List(ctx, q.Page, q.Limit)
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StoryListResponse{
		Stories: dto.ToStoryResponses(result.Items),
		Total:   result.Total,
		Page:    q.Page,
		Limit:   q.Limit,
	})
}

// DeleteStory 删除故事
// @Summary 删除故事
// @Tags Stories
// @Produce json
// @Param id path string true "故事 ID"
// @Success 200 {object} dto.DeleteStoryResponse
// @Router /stories/{id} [delete]
func (h *StoryHandler) DeleteStory(c *gin.Context) {
	deleted, err := h.library.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Error(c, err)
		return
	}
	if !deleted {
		dto.Abort(c, apperrors.ErrStoryNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteStoryResponse{
		Message: "Story deleted successfully",
		Deleted: true,
	})
}
