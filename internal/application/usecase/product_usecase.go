package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/hortti-inventory/internal/application/dto"
	"github.com/jhoicas/hortti-inventory/internal/application/ports"
	"github.com/jhoicas/hortti-inventory/internal/domain"
	"github.com/jhoicas/hortti-inventory/internal/domain/entity"
	"github.com/jhoicas/hortti-inventory/internal/domain/repository"
)

const productResource = "producto"

// ProductUseCase casos de uso CRUD para productos, incluido el ciclo de vida de la imagen asociada.
type ProductUseCase struct {
	repo  repository.ProductRepository
	files ports.FileStore
	log   zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, files ports.FileStore, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, files: files, log: log}
}

// Create crea un nuevo producto activo.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product, err := in.ToEntity()
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// List devuelve una página de productos activos con los filtros de la consulta.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductQuery) (*dto.ProductListResponse, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, q.Filter())
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	data := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		data = append(data, dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Data: data,
		Meta: dto.NewPageMeta(total, q.Page, q.Limit),
	}, nil
}

// GetByID obtiene un producto por ID. No filtra por Active: un producto desactivado sigue accesible por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// Update aplica los campos presentes. Si llega una imagen nueva y el producto ya tenía otra,
// el archivo anterior se borra antes de persistir.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	patch, err := in.ToPatch()
	if err != nil {
		return nil, err
	}
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.ImageURL != nil {
		uc.replaceImage(ctx, product, *patch.ImageURL)
	}
	patch.Apply(product)
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// UpdateImage reemplaza solo la imagen del producto.
func (uc *ProductUseCase) UpdateImage(ctx context.Context, id int64, imageURL string) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.replaceImage(ctx, product, imageURL)
	product.ImageURL = imageURL
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("actualizar imagen: %w", err)
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// Delete borra el producto definitivamente junto con su imagen.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	product, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	uc.discardImage(ctx, product.ID, product.ImageURL)
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar producto: %w", err)
	}
	return nil
}

// Deactivate marca el producto como inactivo (borrado lógico). Deja de aparecer en List
// pero GetByID lo sigue devolviendo.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Active = false
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("desactivar producto: %w", err)
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

func (uc *ProductUseCase) load(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar producto: %w", err)
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: productResource, ID: id}
	}
	return product, nil
}

// replaceImage borra la imagen actual solo si la nueva no es vacía y es distinta.
func (uc *ProductUseCase) replaceImage(ctx context.Context, product *entity.Product, next string) {
	if next == "" || product.ImageURL == "" || next == product.ImageURL {
		return
	}
	uc.discardImage(ctx, product.ID, product.ImageURL)
}

// discardImage borra el archivo; los errores solo se registran.
func (uc *ProductUseCase) discardImage(ctx context.Context, productID int64, ref string) {
	if ref == "" {
		return
	}
	if err := uc.files.Delete(ctx, ref); err != nil {
		uc.log.Warn().Err(err).Int64("product_id", productID).Str("image", ref).Msg("no se pudo borrar la imagen")
	}
}
