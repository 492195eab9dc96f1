package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-http-service/config"
	"portfolio-http-service/internal/error/code"
	"portfolio-http-service/internal/error/response"
	"portfolio-http-service/services"
	"portfolio-http-service/services/container"
)

// InterfaceProjectController 定义项目控制器接口
type InterfaceProjectController interface {
	GetProjects()
	GetProject()
	CreateProject()
	UpdateProject()
	DeleteProject()
}

// ProjectController 处理项目相关的请求
type ProjectController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewProjectController 创建一个新的项目控制器
func NewProjectController(ctx *gin.Context, container *container.ServiceContainer) *ProjectController {
	return &ProjectController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleProjectFunc 返回一个处理项目请求的Gin处理函数
func HandleProjectFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewProjectController(ctx, container)

		switch method {
		case "getProjects":
			controller.GetProjects()
		case "getProject":
			controller.GetProject()
		case "createProject":
			controller.CreateProject()
		case "updateProject":
			controller.UpdateProject()
		case "deleteProject":
			controller.DeleteProject()
		default:
			response.Fail(ctx, code.ErrBind)
		}
	}
}

// respondProjectError 将服务层错误映射为对应的错误码响应
func respondProjectError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		response.Fail(ctx, code.ErrProjectNotFound)
	case errors.Is(err, services.ErrValidation):
		response.ParamError(ctx, err.Error())
	case errors.Is(err, services.ErrTooManyImages):
		response.Fail(ctx, code.ErrTooManyImages)
	case errors.Is(err, services.ErrUpstreamTimeout):
		response.Fail(ctx, code.ErrUpstreamTimeout)
	case errors.Is(err, services.ErrImageUploadFailed):
		response.Fail(ctx, code.ErrImageUploadFailed)
	default:
		config.Error("项目操作失败: %v", err)
		response.ServerError(ctx)
	}
}

// formString 读取表单字段，字段不存在时返回nil
func formString(form *multipart.Form, key string) *string {
	if values, ok := form.Value[key]; ok && len(values) > 0 {
		return &values[0]
	}
	return nil
}

// parseCommaList 将逗号分隔的字段解析为字符串列表。
// 每项去除首尾空白，空项丢弃，避免出现空字符串元素。
func parseCommaList(raw *string) []string {
	if raw == nil {
		return nil
	}
	items := make([]string, 0)
	for _, part := range strings.Split(*raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// parseIDList 解析JSON编码的图片ID数组字段
func parseIDList(raw *string) ([]uint, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(*raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// parseBoolField 解析"true"/"false"形式的表单布尔字段
func parseBoolField(raw *string) *bool {
	if raw == nil {
		return nil
	}
	value, err := strconv.ParseBool(*raw)
	if err != nil {
		return nil
	}
	return &value
}

// readUpload 将multipart文件整体读入内存
func readUpload(fh *multipart.FileHeader) (*services.UploadedFile, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &services.UploadedFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// parseProjectForm 从multipart表单解析项目字段和上传文件
func (c *ProjectController) parseProjectForm() (services.ProjectFields, []services.UploadedFile, []uint, []uint, bool) {
	var fields services.ProjectFields

	form, err := c.Ctx.MultipartForm()
	if err != nil {
		response.ParamError(c.Ctx, "Invalid multipart form")
		return fields, nil, nil, nil, false
	}

	fields.Title = formString(form, "title")
	fields.Description = formString(form, "description")
	fields.LiveLink = formString(form, "liveLink")
	fields.RepoLink = formString(form, "repoLink")
	fields.DemoVideo = formString(form, "demoVideo")
	fields.TechStack = parseCommaList(formString(form, "techStack"))
	fields.Features = parseCommaList(formString(form, "features"))
	fields.Featured = parseBoolField(formString(form, "featured"))
	fields.FeaturedOnHome = parseBoolField(formString(form, "featuredOnHome"))

	if raw := formString(form, "displayOrder"); raw != nil {
		order, err := strconv.Atoi(*raw)
		if err != nil {
			response.ParamError(c.Ctx, "displayOrder must be an integer")
			return fields, nil, nil, nil, false
		}
		fields.DisplayOrder = &order
	}

	imagesToDelete, err := parseIDList(formString(form, "imagesToDelete"))
	if err != nil {
		response.ParamError(c.Ctx, "imagesToDelete must be a JSON array of image ids")
		return fields, nil, nil, nil, false
	}
	existingOrder, err := parseIDList(formString(form, "existingImagesOrder"))
	if err != nil {
		response.ParamError(c.Ctx, "existingImagesOrder must be a JSON array of image ids")
		return fields, nil, nil, nil, false
	}

	imageHeaders := form.File["images"]
	if len(imageHeaders) > services.MaxImageFiles {
		response.Fail(c.Ctx, code.ErrTooManyImages)
		return fields, nil, nil, nil, false
	}

	files := make([]services.UploadedFile, 0, len(imageHeaders))
	for _, fh := range imageHeaders {
		upload, err := readUpload(fh)
		if err != nil {
			response.ParamError(c.Ctx, "Failed to read uploaded file")
			return fields, nil, nil, nil, false
		}
		files = append(files, *upload)
	}

	// 可选的单个演示视频文件
	if videoHeaders := form.File["demoVideoFile"]; len(videoHeaders) > 0 {
		upload, err := readUpload(videoHeaders[0])
		if err != nil {
			response.ParamError(c.Ctx, "Failed to read uploaded video file")
			return fields, nil, nil, nil, false
		}
		fields.DemoVideoFile = upload
	}

	return fields, files, imagesToDelete, existingOrder, true
}

// 1. GetProjects 获取项目列表
// @Summary 获取所有项目
// @Description 按display_order升序返回全部项目，公开接口
// @Tags project
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Project}
// @Failure 500 {object} ErrorResponse
// @Router /projects [get]
func (c *ProjectController) GetProjects() {
	projectService := c.Container.GetService("project").(services.InterfaceProjectService)

	projects, err := projectService.GetAllProjects()
	if err != nil {
		respondProjectError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, projects)
}

// 2. GetProject 获取单个项目详情
// @Summary 获取单个项目
// @Description 根据ID获取项目信息，公开接口
// @Tags project
// @Produce json
// @Param id path int true "项目ID"
// @Success 200 {object} response.Response{data=models.Project}
// @Failure 404 {object} ErrorResponse
// @Router /projects/{id} [get]
func (c *ProjectController) GetProject() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "Invalid project id")
		return
	}

	projectService := c.Container.GetService("project").(services.InterfaceProjectService)

	project, err := projectService.GetProjectByID(uint(id))
	if err != nil {
		respondProjectError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, project)
}

// 3. CreateProject 创建项目
// @Summary 创建项目
// @Description 创建项目，multipart表单最多携带5个图片文件和1个视频文件
// @Tags project
// @Accept multipart/form-data
// @Produce json
// @Security CookieAuth
// @Param title formData string true "标题"
// @Param description formData string true "描述"
// @Param repoLink formData string true "仓库链接"
// @Param techStack formData string false "逗号分隔的技术栈"
// @Param features formData string false "逗号分隔的特性列表"
// @Param images formData file false "图片文件，最多5个"
// @Success 201 {object} response.Response{data=models.Project}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /projects [post]
func (c *ProjectController) CreateProject() {
	fields, files, _, _, ok := c.parseProjectForm()
	if !ok {
		return
	}

	projectService := c.Container.GetService("project").(services.InterfaceProjectService)

	project, err := projectService.CreateProject(c.Ctx.Request.Context(), fields, files)
	if err != nil {
		respondProjectError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, project)
}

// 4. UpdateProject 更新项目
// @Summary 更新项目
// @Description 更新项目字段并对图片列表执行删除/重排/追加调和
// @Tags project
// @Accept multipart/form-data
// @Produce json
// @Security CookieAuth
// @Param id path int true "项目ID"
// @Param imagesToDelete formData string false "待删除图片ID的JSON数组"
// @Param existingImagesOrder formData string false "幸存图片期望顺序的JSON数组"
// @Param images formData file false "追加的图片文件，最多5个"
// @Success 200 {object} response.Response{data=models.Project}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /projects/{id} [put]
func (c *ProjectController) UpdateProject() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "Invalid project id")
		return
	}

	fields, files, imagesToDelete, existingOrder, ok := c.parseProjectForm()
	if !ok {
		return
	}

	projectService := c.Container.GetService("project").(services.InterfaceProjectService)

	project, err := projectService.UpdateProject(c.Ctx.Request.Context(), uint(id), fields, imagesToDelete, existingOrder, files)
	if err != nil {
		respondProjectError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, project)
}

// 5. DeleteProject 删除项目
// @Summary 删除项目
// @Description 删除项目并尽力释放其图片占用的对象存储
// @Tags project
// @Produce json
// @Security CookieAuth
// @Param id path int true "项目ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{id} [delete]
func (c *ProjectController) DeleteProject() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "Invalid project id")
		return
	}

	projectService := c.Container.GetService("project").(services.InterfaceProjectService)

	if err := projectService.DeleteProject(c.Ctx.Request.Context(), uint(id)); err != nil {
		respondProjectError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"message": "Project removed"})
}
