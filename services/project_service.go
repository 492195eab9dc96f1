package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"portfolio-http-service/config"
	"portfolio-http-service/models"
)

// MaxImageFiles 单次请求允许上传的图片数量上限
const MaxImageFiles = 5

// UploadedFile 控制器从multipart表单中读出的待上传文件
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProjectFields 项目的可编辑字段，nil表示本次编辑不修改该字段
type ProjectFields struct {
	Title          *string
	Description    *string
	TechStack      []string
	Features       []string
	LiveLink       *string
	RepoLink       *string
	DemoVideo      *string
	Featured       *bool
	FeaturedOnHome *bool
	DisplayOrder   *int
	DemoVideoFile  *UploadedFile // 可选的演示视频文件，上传后覆盖DemoVideo
}

// InterfaceProjectService 定义项目服务接口
type InterfaceProjectService interface {
	GetAllProjects() ([]models.Project, error)
	GetProjectByID(id uint) (*models.Project, error)
	CreateProject(ctx context.Context, fields ProjectFields, files []UploadedFile) (*models.Project, error)
	UpdateProject(ctx context.Context, id uint, fields ProjectFields, imagesToDelete, existingOrder []uint, files []UploadedFile) (*models.Project, error)
	DeleteProject(ctx context.Context, id uint) error
}

// ProjectService 提供项目CRUD和图片集合调和逻辑
type ProjectService struct {
	DB      *gorm.DB
	Config  *config.Config
	Storage InterfaceStorageService
	Cache   InterfaceRedisService // 可为nil，缓存不可用时直接查库
}

// NewProjectService 创建一个新的项目服务
func NewProjectService(db *gorm.DB, cfg *config.Config, storage InterfaceStorageService, cache InterfaceRedisService) *ProjectService {
	return &ProjectService{
		DB:      db,
		Config:  cfg,
		Storage: storage,
		Cache:   cache,
	}
}

// withImages 预加载按position排序的图片列表
func (s *ProjectService) withImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, id ASC")
	})
}

// GetAllProjects 获取全部项目，按display_order升序，相同时按插入顺序
func (s *ProjectService) GetAllProjects() ([]models.Project, error) {
	if s.Cache != nil {
		var cached []models.Project
		if err := s.Cache.GetProjectList(&cached); err == nil {
			return cached, nil
		}
	}

	var projects []models.Project
	if err := s.withImages(s.DB).Order("display_order ASC, id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.CacheProjectList(projects); err != nil {
			config.Warning("缓存项目列表失败: %v", err)
		}
	}
	return projects, nil
}

// GetProjectByID 根据ID获取项目
func (s *ProjectService) GetProjectByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.withImages(s.DB).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// validateRequired 校验创建项目时的必填字段
func validateRequired(fields ProjectFields) error {
	if fields.Title == nil || *fields.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if fields.Description == nil || *fields.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if fields.RepoLink == nil || *fields.RepoLink == "" {
		return fmt.Errorf("%w: repoLink is required", ErrValidation)
	}
	return nil
}

// uploadOne 上传单个文件。超时保留 ErrUpstreamTimeout，
// 其余错误包装为 ErrImageUploadFailed。
func (s *ProjectService) uploadOne(ctx context.Context, f UploadedFile) (*StoredObject, error) {
	obj, err := s.Storage.UploadFile(ctx, f.Filename, f.Data, f.ContentType)
	if err != nil {
		if errors.Is(err, ErrUpstreamTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrImageUploadFailed, err)
	}
	return obj, nil
}

// uploadAll 按提交顺序上传全部文件，任何一个失败则整体失败
func (s *ProjectService) uploadAll(ctx context.Context, files []UploadedFile) ([]StoredObject, error) {
	uploaded := make([]StoredObject, 0, len(files))
	for _, f := range files {
		obj, err := s.uploadOne(ctx, f)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, *obj)
	}
	return uploaded, nil
}

// releaseAll 尽力释放一组存储句柄，失败只记日志，不影响调用方。
// 释放发生在事务提交之后，不随请求取消而中断。
func (s *ProjectService) releaseAll(ctx context.Context, images []models.ProjectImage) {
	ctx = context.WithoutCancel(ctx)
	for _, img := range images {
		if err := s.Storage.ReleaseFile(ctx, img.PublicID); err != nil {
			config.Warning("释放存储对象失败 (key=%s): %v", img.PublicID, err)
		}
	}
}

// invalidateCache 项目数据变更后清除列表缓存
func (s *ProjectService) invalidateCache() {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.InvalidateProjectList(); err != nil {
		config.Warning("清除项目列表缓存失败: %v", err)
	}
}

// CreateProject 创建项目，按提交顺序上传文件作为初始图片列表
func (s *ProjectService) CreateProject(ctx context.Context, fields ProjectFields, files []UploadedFile) (*models.Project, error) {
	if err := validateRequired(fields); err != nil {
		return nil, err
	}
	if len(files) > MaxImageFiles {
		return nil, ErrTooManyImages
	}

	// 先上传，全部成功后才写库
	uploaded, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	var demoVideoURL string
	if fields.DemoVideoFile != nil {
		obj, err := s.uploadOne(ctx, *fields.DemoVideoFile)
		if err != nil {
			return nil, err
		}
		demoVideoURL = obj.URL
	}

	project := models.Project{
		Title:       *fields.Title,
		Description: *fields.Description,
		RepoLink:    *fields.RepoLink,
		TechStack:   models.StringList(fields.TechStack),
		Features:    models.StringList(fields.Features),
	}
	if fields.LiveLink != nil {
		project.LiveLink = *fields.LiveLink
	}
	if fields.DemoVideo != nil {
		project.DemoVideo = *fields.DemoVideo
	}
	if demoVideoURL != "" {
		project.DemoVideo = demoVideoURL
	}
	if fields.Featured != nil {
		project.Featured = *fields.Featured
	}
	if fields.FeaturedOnHome != nil {
		project.FeaturedOnHome = *fields.FeaturedOnHome
	}
	if fields.DisplayOrder != nil {
		project.DisplayOrder = *fields.DisplayOrder
	}

	for i, obj := range uploaded {
		project.Images = append(project.Images, models.ProjectImage{
			URL:      obj.URL,
			PublicID: obj.Key,
			Position: i,
		})
	}

	if err := s.DB.Create(&project).Error; err != nil {
		// 元数据写入失败时已上传的文件可能滞留在对象存储中，记日志不回滚
		config.Error("创建项目失败，%d个已上传文件未被引用: %v", len(uploaded), err)
		return nil, err
	}

	s.invalidateCache()
	return s.GetProjectByID(project.ID)
}

// reconcileImages 计算调和后的图片列表。
// 先剔除待删除的图片，再按期望顺序重排幸存图片；期望顺序中缺失的
// 幸存图片保持原有相对顺序追加到末尾，绝不因顺序缺口丢图。
func reconcileImages(current []models.ProjectImage, imagesToDelete, existingOrder []uint) (survivors, removed []models.ProjectImage) {
	deleteSet := make(map[uint]bool, len(imagesToDelete))
	for _, id := range imagesToDelete {
		deleteSet[id] = true
	}

	remaining := make([]models.ProjectImage, 0, len(current))
	for _, img := range current {
		if deleteSet[img.ID] {
			removed = append(removed, img)
		} else {
			remaining = append(remaining, img)
		}
	}

	if len(existingOrder) == 0 {
		return remaining, removed
	}

	byID := make(map[uint]models.ProjectImage, len(remaining))
	for _, img := range remaining {
		byID[img.ID] = img
	}

	placed := make(map[uint]bool, len(existingOrder))
	survivors = make([]models.ProjectImage, 0, len(remaining))
	for _, id := range existingOrder {
		if img, ok := byID[id]; ok && !placed[id] {
			survivors = append(survivors, img)
			placed[id] = true
		}
	}
	for _, img := range remaining {
		if !placed[img.ID] {
			survivors = append(survivors, img)
		}
	}
	return survivors, removed
}

// UpdateProject 更新项目字段并对图片列表执行删除/重排/追加的调和。
// 新文件全部上传成功后才落库；任何上传失败时项目保持原样。
func (s *ProjectService) UpdateProject(ctx context.Context, id uint, fields ProjectFields, imagesToDelete, existingOrder []uint, files []UploadedFile) (*models.Project, error) {
	if len(files) > MaxImageFiles {
		return nil, ErrTooManyImages
	}

	project, err := s.GetProjectByID(id)
	if err != nil {
		return nil, err
	}

	survivors, removed := reconcileImages(project.Images, imagesToDelete, existingOrder)

	// 上传先于持久化，失败时不产生任何可见的中间状态
	uploaded, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	var demoVideoURL string
	if fields.DemoVideoFile != nil {
		obj, err := s.uploadOne(ctx, *fields.DemoVideoFile)
		if err != nil {
			return nil, err
		}
		demoVideoURL = obj.URL
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if fields.Title != nil && *fields.Title != "" {
			updates["title"] = *fields.Title
		}
		if fields.Description != nil && *fields.Description != "" {
			updates["description"] = *fields.Description
		}
		if fields.LiveLink != nil {
			updates["live_link"] = *fields.LiveLink
		}
		if fields.RepoLink != nil && *fields.RepoLink != "" {
			updates["repo_link"] = *fields.RepoLink
		}
		if fields.DemoVideo != nil {
			updates["demo_video"] = *fields.DemoVideo
		}
		if demoVideoURL != "" {
			updates["demo_video"] = demoVideoURL
		}
		if fields.Featured != nil {
			updates["featured"] = *fields.Featured
		}
		if fields.FeaturedOnHome != nil {
			updates["featured_on_home"] = *fields.FeaturedOnHome
		}
		if fields.DisplayOrder != nil {
			updates["display_order"] = *fields.DisplayOrder
		}
		if fields.TechStack != nil {
			updates["tech_stack"] = models.StringList(fields.TechStack)
		}
		if fields.Features != nil {
			updates["features"] = models.StringList(fields.Features)
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		// 删除被移除的图片记录
		if len(removed) > 0 {
			removedIDs := make([]uint, 0, len(removed))
			for _, img := range removed {
				removedIDs = append(removedIDs, img.ID)
			}
			if err := tx.Where("project_id = ? AND id IN ?", id, removedIDs).Delete(&models.ProjectImage{}).Error; err != nil {
				return err
			}
		}

		// 重写幸存图片的顺序
		for i, img := range survivors {
			if img.Position == i {
				continue
			}
			if err := tx.Model(&models.ProjectImage{}).Where("id = ?", img.ID).Update("position", i).Error; err != nil {
				return err
			}
		}

		// 新上传的图片按提交顺序追加到末尾
		for j, obj := range uploaded {
			img := models.ProjectImage{
				ProjectID: id,
				URL:       obj.URL,
				PublicID:  obj.Key,
				Position:  len(survivors) + j,
			}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 元数据删除是权威结果，存储释放只尽力而为
	s.releaseAll(ctx, removed)
	s.invalidateCache()
	return s.GetProjectByID(id)
}

// DeleteProject 删除项目并尽力释放其全部图片的存储句柄
func (s *ProjectService) DeleteProject(ctx context.Context, id uint) error {
	project, err := s.GetProjectByID(id)
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
	if err != nil {
		return err
	}

	s.releaseAll(ctx, project.Images)
	s.invalidateCache()
	return nil
}
